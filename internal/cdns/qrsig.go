package cdns

import "github.com/jroosing/cdns/internal/cbor"

// QueryResponseType is the transaction role per the dnstap schema.
type QueryResponseType uint8

const (
	QueryResponseStub QueryResponseType = iota
	QueryResponseClient
	QueryResponseResolver
	QueryResponseAuthoritative
	QueryResponseForwarder
	QueryResponseTool
)

func (t QueryResponseType) valid() bool { return t <= QueryResponseTool }

// QueryResponseSignature holds elements of a Q/R data item that are often
// common between multiple individual Q/R data items, so they are
// de-duplicated into BlockTables.QRSig.
type QueryResponseSignature struct {
	ServerAddressIndex  *uint64
	ServerPort           *uint16
	QrTransportFlags     *TransportFlags
	QrType               *QueryResponseType
	QrSigFlags           *QueryResponseFlags
	QueryOpcode          *uint8
	QrDNSFlags           *DNSFlags
	QueryRcode           *uint16
	QueryClasstypeIndex  *uint64
	QueryQdcount         *uint64
	QueryAncount         *uint64
	QueryNscount         *uint64
	QueryArcount         *uint64
	QueryEdnsVersion     *uint8
	QueryUDPSize         *uint16
	QueryOptRdataIndex   *uint64
	ResponseRcode        *uint16
	Extras               cbor.Extras
}

func (s *QueryResponseSignature) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &s.Extras,
		Fields: []cbor.Field{
			optU64Field(0, "server_address_index", &s.ServerAddressIndex),
			optU16Field(1, "server_port", &s.ServerPort),
			{Index: 2, Label: "qr_transport_flags", Present: func() bool { return s.QrTransportFlags != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*s.QrTransportFlags) },
				Decode: func(raw []byte) error {
					var v TransportFlags
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					s.QrTransportFlags = &v
					return nil
				}},
			{Index: 3, Label: "qr_type", Present: func() bool { return s.QrType != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*s.QrType) },
				Decode: func(raw []byte) error {
					var v QueryResponseType
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					if !v.valid() {
						return newInvalidVariantErr("qr_type")
					}
					s.QrType = &v
					return nil
				}},
			{Index: 4, Label: "qr_sig_flags", Present: func() bool { return s.QrSigFlags != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(uint16(*s.QrSigFlags)) },
				Decode: func(raw []byte) error {
					var v uint16
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					f := QueryResponseFlags(v)
					s.QrSigFlags = &f
					return nil
				}},
			optU8Field(5, "query_opcode", &s.QueryOpcode),
			{Index: 6, Label: "qr_dns_flags", Present: func() bool { return s.QrDNSFlags != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(uint16(*s.QrDNSFlags)) },
				Decode: func(raw []byte) error {
					var v uint16
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					f := DNSFlags(v)
					s.QrDNSFlags = &f
					return nil
				}},
			optU16Field(7, "query_rcode", &s.QueryRcode),
			optU64Field(8, "query_classtype_index", &s.QueryClasstypeIndex),
			optU64Field(9, "query_qdcount", &s.QueryQdcount),
			optU64Field(10, "query_ancount", &s.QueryAncount),
			optU64Field(11, "query_nscount", &s.QueryNscount),
			optU64Field(12, "query_arcount", &s.QueryArcount),
			optU8Field(13, "query_edns_version", &s.QueryEdnsVersion),
			optU16Field(14, "query_udp_size", &s.QueryUDPSize),
			optU64Field(15, "query_opt_rdata_index", &s.QueryOptRdataIndex),
			optU16Field(16, "response_rcode", &s.ResponseRcode),
		},
	}
}

func (s QueryResponseSignature) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&s).fieldSet(""))
}

func ParseQueryResponseSignature(data []byte, off *int, path string) (QueryResponseSignature, error) {
	var s QueryResponseSignature
	if err := cbor.DecodeIndexedMap(data, off, s.fieldSet(path), path); err != nil {
		return QueryResponseSignature{}, err
	}
	return s, nil
}

func optU64Field(index int64, label string, dst **uint64) cbor.Field {
	return cbor.Field{
		Index: index, Label: label,
		Present: func() bool { return *dst != nil },
		Encode:  func() ([]byte, error) { return cbor.EncodeScalar(**dst) },
		Decode: func(raw []byte) error {
			var v uint64
			if err := cbor.DecodeScalar(raw, &v); err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func optU16Field(index int64, label string, dst **uint16) cbor.Field {
	return cbor.Field{
		Index: index, Label: label,
		Present: func() bool { return *dst != nil },
		Encode:  func() ([]byte, error) { return cbor.EncodeScalar(**dst) },
		Decode: func(raw []byte) error {
			var v uint16
			if err := cbor.DecodeScalar(raw, &v); err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func optU8Field(index int64, label string, dst **uint8) cbor.Field {
	return cbor.Field{
		Index: index, Label: label,
		Present: func() bool { return *dst != nil },
		Encode:  func() ([]byte, error) { return cbor.EncodeScalar(**dst) },
		Decode: func(raw []byte) error {
			var v uint8
			if err := cbor.DecodeScalar(raw, &v); err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}
