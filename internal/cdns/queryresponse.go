package cdns

import "github.com/jroosing/cdns/internal/cbor"

// QueryResponse details one Q/R data item. There is no requirement that
// entries of Block.QueryResponses are in chronological order.
type QueryResponse struct {
	TimeOffset              *UTicks
	ClientAddressIndex       *uint64
	ClientPort               *uint16
	TransactionID            *uint16
	QrSignatureIndex         *uint64
	ClientHoplimit           *uint8
	ResponseDelay            *Ticks
	QueryNameIndex           *uint64
	QuerySize                *uint16
	ResponseSize             *uint16
	ResponseProcessingData   *ResponseProcessingData
	QueryExtended            *QueryResponseExtended
	ResponseExtended         *QueryResponseExtended
	Extras                   cbor.Extras
}

func (q *QueryResponse) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &q.Extras,
		Fields: []cbor.Field{
			{Index: 0, Label: "time_offset", Present: func() bool { return q.TimeOffset != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*q.TimeOffset) },
				Decode: func(raw []byte) error {
					var v UTicks
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					q.TimeOffset = &v
					return nil
				}},
			optU64Field(1, "client_address_index", &q.ClientAddressIndex),
			optU16Field(2, "client_port", &q.ClientPort),
			optU16Field(3, "transaction_id", &q.TransactionID),
			optU64Field(4, "qr_signature_index", &q.QrSignatureIndex),
			optU8Field(5, "client_hoplimit", &q.ClientHoplimit),
			{Index: 6, Label: "response_delay", Present: func() bool { return q.ResponseDelay != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(*q.ResponseDelay) },
				Decode: func(raw []byte) error {
					var v Ticks
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					q.ResponseDelay = &v
					return nil
				}},
			optU64Field(7, "query_name_index", &q.QueryNameIndex),
			optU16Field(8, "query_size", &q.QuerySize),
			optU16Field(9, "response_size", &q.ResponseSize),
			{Index: 10, Label: "response_processing_data", Present: func() bool { return q.ResponseProcessingData != nil },
				Encode: func() ([]byte, error) { return q.ResponseProcessingData.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					v, err := ParseResponseProcessingData(raw, &o, path+".response_processing_data")
					q.ResponseProcessingData = &v
					return err
				}},
			{Index: 11, Label: "query_extended", Present: func() bool { return q.QueryExtended != nil },
				Encode: func() ([]byte, error) { return q.QueryExtended.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					v, err := ParseQueryResponseExtended(raw, &o, path+".query_extended")
					q.QueryExtended = &v
					return err
				}},
			{Index: 12, Label: "response_extended", Present: func() bool { return q.ResponseExtended != nil },
				Encode: func() ([]byte, error) { return q.ResponseExtended.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					v, err := ParseQueryResponseExtended(raw, &o, path+".response_extended")
					q.ResponseExtended = &v
					return err
				}},
		},
	}
}

func (q QueryResponse) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&q).fieldSet(""))
}

func ParseQueryResponse(data []byte, off *int, path string) (QueryResponse, error) {
	var q QueryResponse
	if err := cbor.DecodeIndexedMap(data, off, q.fieldSet(path), path); err != nil {
		return QueryResponse{}, err
	}
	return q, nil
}

// ResponseProcessingFlags relate to the server processing of a Response.
type ResponseProcessingFlags uint8

const (
	ResponseProcessingFromCache ResponseProcessingFlags = 1 << iota
)

// ResponseProcessingData carries information on the server processing
// that produced the Response.
type ResponseProcessingData struct {
	BailiwickIndex  *uint64
	ProcessingFlags *ResponseProcessingFlags
	Extras          cbor.Extras
}

func (r *ResponseProcessingData) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &r.Extras,
		Fields: []cbor.Field{
			optU64Field(0, "bailiwick_index", &r.BailiwickIndex),
			{Index: 1, Label: "processing_flags", Present: func() bool { return r.ProcessingFlags != nil },
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(uint8(*r.ProcessingFlags)) },
				Decode: func(raw []byte) error {
					var v uint8
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					f := ResponseProcessingFlags(v)
					r.ProcessingFlags = &f
					return nil
				}},
		},
	}
}

func (r ResponseProcessingData) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&r).fieldSet(""))
}

func ParseResponseProcessingData(data []byte, off *int, path string) (ResponseProcessingData, error) {
	var r ResponseProcessingData
	if err := cbor.DecodeIndexedMap(data, off, r.fieldSet(path), path); err != nil {
		return ResponseProcessingData{}, err
	}
	return r, nil
}

// QueryResponseExtended carries extended Q/R data items collected only
// when configured: indexes into BlockTables.QList/RRList for the second
// and subsequent Questions and the Answer/Authority/Additional sections.
type QueryResponseExtended struct {
	QuestionIndex  *uint64
	AnswerIndex     *uint64
	AuthorityIndex  *uint64
	AdditionalIndex *uint64
	Extras          cbor.Extras
}

func (e *QueryResponseExtended) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &e.Extras,
		Fields: []cbor.Field{
			optU64Field(0, "question_index", &e.QuestionIndex),
			optU64Field(1, "answer_index", &e.AnswerIndex),
			optU64Field(2, "authority_index", &e.AuthorityIndex),
			optU64Field(3, "additional_index", &e.AdditionalIndex),
		},
	}
}

func (e QueryResponseExtended) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&e).fieldSet(""))
}

func ParseQueryResponseExtended(data []byte, off *int, path string) (QueryResponseExtended, error) {
	var e QueryResponseExtended
	if err := cbor.DecodeIndexedMap(data, off, e.fieldSet(path), path); err != nil {
		return QueryResponseExtended{}, err
	}
	return e, nil
}
