package cdns

import "github.com/jroosing/cdns/internal/cbor"

// RR details an individual RR in an RR section.
type RR struct {
	NameIndex      uint64
	ClasstypeIndex uint64
	TTL            *uint32
	RdataIndex     *uint64
	Extras         cbor.Extras
}

func (r *RR) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &r.Extras,
		Fields: []cbor.Field{
			{Index: 0, Label: "name_index", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(r.NameIndex) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &r.NameIndex) }},
			{Index: 1, Label: "classtype_index", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(r.ClasstypeIndex) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &r.ClasstypeIndex) }},
			optU32Field(2, "ttl", &r.TTL),
			optU64Field(3, "rdata_index", &r.RdataIndex),
		},
	}
}

func (r RR) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&r).fieldSet(""))
}

func ParseRR(data []byte, off *int, path string) (RR, error) {
	var r RR
	if err := cbor.DecodeIndexedMap(data, off, r.fieldSet(path), path); err != nil {
		return RR{}, err
	}
	return r, nil
}
