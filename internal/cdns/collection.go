package cdns

import "github.com/jroosing/cdns/internal/cbor"

// CollectionParameters carries collection-time metadata; every field is
// optional uninterpreted metadata except vlan_ids and promisc, which
// carry light validation.
type CollectionParameters struct {
	QueryTimeout        *uint32
	SkewTimeout          *uint32
	SnapLen              *uint32
	Promisc              *bool
	Interfaces           []string
	ServerAddresses      []IpAddr
	VlanIDs              []uint16 // RFC 8618 array of 12-bit identifiers; see DESIGN.md
	Filter               *string
	Generator            *string
	HostID               *string
	Extras               cbor.Extras
}

func (cp *CollectionParameters) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &cp.Extras,
		Fields: []cbor.Field{
			optU32Field(0, "query_timeout", &cp.QueryTimeout),
			optU32Field(1, "skew_timeout", &cp.SkewTimeout),
			optU32Field(2, "snaplen", &cp.SnapLen),
			{Index: 3, Label: "promisc", Present: func() bool { return cp.Promisc != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*cp.Promisc) },
				Decode: func(raw []byte) error {
					var v bool
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					cp.Promisc = &v
					return nil
				}},
			{Index: 4, Label: "interfaces", Present: func() bool { return cp.Interfaces != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(cp.Interfaces) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &cp.Interfaces) }},
			{Index: 5, Label: "server_addresses", Present: func() bool { return cp.ServerAddresses != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(cp.ServerAddresses) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &cp.ServerAddresses) }},
			{Index: 6, Label: "vlan_ids", Present: func() bool { return cp.VlanIDs != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(cp.VlanIDs) },
				Decode: func(raw []byte) error {
					var ids []uint16
					if err := cbor.DecodeScalar(raw, &ids); err != nil {
						return err
					}
					for _, id := range ids {
						if id < 1 || id > 4094 {
							return newRangeViolationErr("vlan_ids")
						}
					}
					cp.VlanIDs = ids
					return nil
				}},
			optStringField(7, "filter", &cp.Filter),
			optStringField(8, "generator_id", &cp.Generator),
			optStringField(9, "host_id", &cp.HostID),
		},
	}
}

func optU32Field(index int64, label string, dst **uint32) cbor.Field {
	return cbor.Field{
		Index: index, Label: label,
		Present: func() bool { return *dst != nil },
		Encode:  func() ([]byte, error) { return cbor.EncodeScalar(**dst) },
		Decode: func(raw []byte) error {
			var v uint32
			if err := cbor.DecodeScalar(raw, &v); err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func optStringField(index int64, label string, dst **string) cbor.Field {
	return cbor.Field{
		Index: index, Label: label,
		Present: func() bool { return *dst != nil },
		Encode:  func() ([]byte, error) { return cbor.EncodeScalar(**dst) },
		Decode: func(raw []byte) error {
			var v string
			if err := cbor.DecodeScalar(raw, &v); err != nil {
				return err
			}
			*dst = &v
			return nil
		},
	}
}

func (cp CollectionParameters) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&cp).fieldSet(""))
}

func ParseCollectionParameters(data []byte, off *int, path string) (CollectionParameters, error) {
	var cp CollectionParameters
	if err := cbor.DecodeIndexedMap(data, off, cp.fieldSet(path), path); err != nil {
		return CollectionParameters{}, err
	}
	return cp, nil
}
