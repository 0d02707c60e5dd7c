package cdns

import "github.com/jroosing/cdns/internal/cbor"

// Question details an individual Question in a Question section (the
// second and subsequent Questions, reached via
// QueryResponseExtended.QuestionIndex and BlockTables.QList; the first is
// referenced directly from QueryResponse/QueryResponseSignature).
type Question struct {
	NameIndex      uint64
	ClasstypeIndex uint64
	Extras         cbor.Extras
}

func (q *Question) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &q.Extras,
		Fields: []cbor.Field{
			{Index: 0, Label: "name_index", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(q.NameIndex) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &q.NameIndex) }},
			{Index: 1, Label: "classtype_index", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(q.ClasstypeIndex) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &q.ClasstypeIndex) }},
		},
	}
}

func (q Question) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&q).fieldSet(""))
}

func ParseQuestion(data []byte, off *int, path string) (Question, error) {
	var q Question
	if err := cbor.DecodeIndexedMap(data, off, q.fieldSet(path), path); err != nil {
		return Question{}, err
	}
	return q, nil
}
