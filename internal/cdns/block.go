package cdns

import (
	"fmt"

	"github.com/jroosing/cdns/internal/cbor"
)

// Block is one chunk of DNS records sharing a BlockParameters entry.
type Block struct {
	BlockPreamble        BlockPreamble
	BlockStatistics      *BlockStatistics
	BlockTables          *BlockTables
	QueryResponses       []QueryResponse
	AddressEventCounts   []AddressEventCount
	MalformedMessages    []MalformedMessage
	Extras               cbor.Extras
}

func (b *Block) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &b.Extras,
		Fields: []cbor.Field{
			{Index: 1, Label: "block_preamble", Required: true,
				Encode: func() ([]byte, error) { return b.BlockPreamble.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					p, err := ParseBlockPreamble(raw, &o, path+".block_preamble")
					b.BlockPreamble = p
					return err
				}},
			{Index: 2, Label: "block_statistics", Present: func() bool { return b.BlockStatistics != nil },
				Encode: func() ([]byte, error) { return b.BlockStatistics.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					s, err := ParseBlockStatistics(raw, &o, path+".block_statistics")
					b.BlockStatistics = &s
					return err
				}},
			{Index: 3, Label: "block_tables", Present: func() bool { return b.BlockTables != nil },
				Encode: func() ([]byte, error) { return b.BlockTables.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					t, err := ParseBlockTables(raw, &o, path+".block_tables")
					b.BlockTables = &t
					return err
				}},
			{Index: 4, Label: "query_responses", Present: func() bool { return b.QueryResponses != nil },
				Encode: func() ([]byte, error) { return marshalSlice(len(b.QueryResponses), func(i int) ([]byte, error) { return b.QueryResponses[i].Marshal() }) },
				Decode: func(raw []byte) error {
					items, err := parseSlice(raw, path+".query_responses", ParseQueryResponse)
					b.QueryResponses = items
					return err
				}},
			{Index: 5, Label: "address_event_counts", Present: func() bool { return b.AddressEventCounts != nil },
				Encode: func() ([]byte, error) { return marshalSlice(len(b.AddressEventCounts), func(i int) ([]byte, error) { return b.AddressEventCounts[i].Marshal() }) },
				Decode: func(raw []byte) error {
					items, err := parseSlice(raw, path+".address_event_counts", ParseAddressEventCount)
					b.AddressEventCounts = items
					return err
				}},
			{Index: 6, Label: "malformed_messages", Present: func() bool { return b.MalformedMessages != nil },
				Encode: func() ([]byte, error) { return marshalSlice(len(b.MalformedMessages), func(i int) ([]byte, error) { return b.MalformedMessages[i].Marshal() }) },
				Decode: func(raw []byte) error {
					items, err := parseSlice(raw, path+".malformed_messages", ParseMalformedMessage)
					b.MalformedMessages = items
					return err
				}},
		},
	}
}

func (b Block) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&b).fieldSet(""))
}

func ParseBlock(data []byte, off *int, path string) (Block, error) {
	var b Block
	if err := cbor.DecodeIndexedMap(data, off, b.fieldSet(path), path); err != nil {
		return Block{}, err
	}
	return b, nil
}

// marshalSlice is a small helper shared by every record type that holds
// an array of sub-records: it writes a definite-length CBOR array header
// followed by each element's own encoding.
func marshalSlice(n int, encodeAt func(i int) ([]byte, error)) ([]byte, error) {
	buf := cbor.AppendArrayHeader(nil, n)
	for i := 0; i < n; i++ {
		v, err := encodeAt(i)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf = append(buf, v...)
	}
	return buf, nil
}

// parseSlice decodes a CBOR array of sub-records, either length mode,
// using parseOne to decode each element.
func parseSlice[T any](data []byte, path string, parseOne func([]byte, *int, string) (T, error)) ([]T, error) {
	off := 0
	count, indefinite, err := cbor.ReadArrayHeader(data, &off)
	if err != nil {
		return nil, err
	}
	var out []T
	i := 0
	readOne := func() error {
		v, err := parseOne(data, &off, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return err
		}
		out = append(out, v)
		i++
		return nil
	}
	if indefinite {
		for !cbor.PeekIsBreak(data, off) {
			if err := readOne(); err != nil {
				return nil, err
			}
		}
		if err := cbor.ConsumeBreak(data, &off); err != nil {
			return nil, err
		}
	} else {
		for j := int64(0); j < count; j++ {
			if err := readOne(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// BlockPreamble carries per-Block timing and parameter-selection.
type BlockPreamble struct {
	EarliestTime        *Timestamp
	BlockParametersIndex *uint32
	Extras               cbor.Extras
}

// ResolvedBlockParametersIndex returns the effective index, defaulting
// to 0 when absent.
func (p BlockPreamble) ResolvedBlockParametersIndex() int {
	if p.BlockParametersIndex == nil {
		return 0
	}
	return int(*p.BlockParametersIndex)
}

func (p *BlockPreamble) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &p.Extras,
		Fields: []cbor.Field{
			{Index: 1, Label: "earliest_time", Present: func() bool { return p.EarliestTime != nil },
				Encode: func() ([]byte, error) { return p.EarliestTime.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					ts, err := ParseTimestamp(raw, &o, path+".earliest_time")
					p.EarliestTime = &ts
					return err
				}},
			optU32Field(2, "block_parameters_index", &p.BlockParametersIndex),
		},
	}
}

func (p BlockPreamble) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&p).fieldSet(""))
}

func ParseBlockPreamble(data []byte, off *int, path string) (BlockPreamble, error) {
	var p BlockPreamble
	if err := cbor.DecodeIndexedMap(data, off, p.fieldSet(path), path); err != nil {
		return BlockPreamble{}, err
	}
	return p, nil
}

// BlockStatistics carries per-Block packet/processing counters; every
// field is optional (a producer omits counters it didn't track).
type BlockStatistics struct {
	ProcessedMessages       *uint32
	QRDataItems              *uint32
	UnmatchedQueries         *uint32
	UnmatchedResponses       *uint32
	DiscardedOpcode          *uint8
	MalformedItems           *uint32
	Extras                   cbor.Extras
}

func (s *BlockStatistics) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false,
		Extras:     &s.Extras,
		Fields: []cbor.Field{
			optU32Field(0, "processed_messages", &s.ProcessedMessages),
			optU32Field(1, "qr_data_items", &s.QRDataItems),
			optU32Field(2, "unmatched_queries", &s.UnmatchedQueries),
			optU32Field(3, "unmatched_responses", &s.UnmatchedResponses),
			optU8Field(4, "discarded_opcode", &s.DiscardedOpcode),
			optU32Field(5, "malformed_items", &s.MalformedItems),
		},
	}
}

func (s BlockStatistics) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&s).fieldSet(""))
}

func ParseBlockStatistics(data []byte, off *int, path string) (BlockStatistics, error) {
	var s BlockStatistics
	if err := cbor.DecodeIndexedMap(data, off, s.fieldSet(path), path); err != nil {
		return BlockStatistics{}, err
	}
	return s, nil
}
