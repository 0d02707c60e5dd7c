package cdns

import "github.com/jroosing/cdns/internal/cbor"

// RRList is an array of indexes into BlockTables.RR.
type RRList []uint64

// QuestionList is an array of indexes into BlockTables.QRR.
type QuestionList []uint64

// BlockTables are the per-Block de-duplication tables: fields ending
// "_index" elsewhere refer into these by zero-based position.
type BlockTables struct {
	IPAddress             []IpAddr
	ClassType              []ClassType
	NameRdata              []NameOrRdata
	QRSig                  []QueryResponseSignature
	QList                  []QuestionList
	QRR                    []Question
	RRList                 []RRList
	RR                     []RR
	MalformedMessageData   []MalformedMessageData
	Extras                 cbor.Extras
}

func (t *BlockTables) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &t.Extras,
		Fields: []cbor.Field{
			{Index: 0, Label: "ip_address", Present: func() bool { return t.IPAddress != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(t.IPAddress) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &t.IPAddress) }},
			{Index: 1, Label: "classtype", Present: func() bool { return t.ClassType != nil },
				Encode: func() ([]byte, error) { return marshalSlice(len(t.ClassType), func(i int) ([]byte, error) { return t.ClassType[i].Marshal() }) },
				Decode: func(raw []byte) error {
					v, err := parseSlice(raw, path+".classtype", ParseClassType)
					t.ClassType = v
					return err
				}},
			{Index: 2, Label: "name_rdata", Present: func() bool { return t.NameRdata != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(t.NameRdata) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &t.NameRdata) }},
			{Index: 3, Label: "qr_sig", Present: func() bool { return t.QRSig != nil },
				Encode: func() ([]byte, error) { return marshalSlice(len(t.QRSig), func(i int) ([]byte, error) { return t.QRSig[i].Marshal() }) },
				Decode: func(raw []byte) error {
					v, err := parseSlice(raw, path+".qr_sig", ParseQueryResponseSignature)
					t.QRSig = v
					return err
				}},
			{Index: 4, Label: "qlist", Present: func() bool { return t.QList != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(t.QList) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &t.QList) }},
			{Index: 5, Label: "qrr", Present: func() bool { return t.QRR != nil },
				Encode: func() ([]byte, error) { return marshalSlice(len(t.QRR), func(i int) ([]byte, error) { return t.QRR[i].Marshal() }) },
				Decode: func(raw []byte) error {
					v, err := parseSlice(raw, path+".qrr", ParseQuestion)
					t.QRR = v
					return err
				}},
			{Index: 6, Label: "rrlist", Present: func() bool { return t.RRList != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(t.RRList) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &t.RRList) }},
			{Index: 7, Label: "rr", Present: func() bool { return t.RR != nil },
				Encode: func() ([]byte, error) { return marshalSlice(len(t.RR), func(i int) ([]byte, error) { return t.RR[i].Marshal() }) },
				Decode: func(raw []byte) error {
					v, err := parseSlice(raw, path+".rr", ParseRR)
					t.RR = v
					return err
				}},
			{Index: 8, Label: "malformed_message_data", Present: func() bool { return t.MalformedMessageData != nil },
				Encode: func() ([]byte, error) {
					return marshalSlice(len(t.MalformedMessageData), func(i int) ([]byte, error) { return t.MalformedMessageData[i].Marshal() })
				},
				Decode: func(raw []byte) error {
					v, err := parseSlice(raw, path+".malformed_message_data", ParseMalformedMessageData)
					t.MalformedMessageData = v
					return err
				}},
		},
	}
}

func (t BlockTables) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&t).fieldSet(""))
}

func ParseBlockTables(data []byte, off *int, path string) (BlockTables, error) {
	var t BlockTables
	if err := cbor.DecodeIndexedMap(data, off, t.fieldSet(path), path); err != nil {
		return BlockTables{}, err
	}
	return t, nil
}

// ClassType is RR CLASS and TYPE information. If Type == OptPseudoRRType
// (41), Class carries the requestor's UDP payload size, not a real CLASS.
type ClassType struct {
	Type   DnsType
	Class  DnsClass
	Extras cbor.Extras
}

func (c *ClassType) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &c.Extras,
		Fields: []cbor.Field{
			{Index: 0, Label: "type", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(c.Type) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &c.Type) }},
			{Index: 1, Label: "class", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(c.Class) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &c.Class) }},
		},
	}
}

func (c ClassType) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&c).fieldSet(""))
}

func ParseClassType(data []byte, off *int, path string) (ClassType, error) {
	var c ClassType
	if err := cbor.DecodeIndexedMap(data, off, c.fieldSet(path), path); err != nil {
		return ClassType{}, err
	}
	return c, nil
}
