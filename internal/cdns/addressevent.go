package cdns

import "github.com/jroosing/cdns/internal/cbor"

// AddressEventType is the kind of IP-related event counted by an
// AddressEventCount.
type AddressEventType uint8

const (
	AddressEventTCPReset AddressEventType = iota
	AddressEventICMPTimeExceeded
	AddressEventICMPDestinationUnreachable
	AddressEventICMPv6TimeExceeded
	AddressEventICMPv6DestinationUnreachable
	AddressEventICMPv6PacketTooBig
)

func (t AddressEventType) valid() bool { return t <= AddressEventICMPv6PacketTooBig }

// AddressEventCount counts IP-related events (TCP resets, ICMP
// responses) relating to traffic with individual client addresses.
type AddressEventCount struct {
	AEType            AddressEventType
	AECode             *uint32
	AEAddressIndex     uint64
	AETransportFlags   *TransportFlags
	AECount            uint64
	Extras             cbor.Extras
}

func (a *AddressEventCount) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &a.Extras,
		Fields: []cbor.Field{
			{Index: 0, Label: "ae_type", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(a.AEType) },
				Decode: func(raw []byte) error {
					var v AddressEventType
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					if !v.valid() {
						return newInvalidVariantErr("ae_type")
					}
					a.AEType = v
					return nil
				}},
			optU32Field(1, "ae_code", &a.AECode),
			{Index: 2, Label: "ae_address_index", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(a.AEAddressIndex) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &a.AEAddressIndex) }},
			{Index: 3, Label: "ae_transport_flags", Present: func() bool { return a.AETransportFlags != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*a.AETransportFlags) },
				Decode: func(raw []byte) error {
					var v TransportFlags
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					a.AETransportFlags = &v
					return nil
				}},
			{Index: 4, Label: "ae_count", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(a.AECount) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &a.AECount) }},
		},
	}
}

func (a AddressEventCount) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&a).fieldSet(""))
}

func ParseAddressEventCount(data []byte, off *int, path string) (AddressEventCount, error) {
	var a AddressEventCount
	if err := cbor.DecodeIndexedMap(data, off, a.fieldSet(path), path); err != nil {
		return AddressEventCount{}, err
	}
	return a, nil
}
