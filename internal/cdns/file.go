package cdns

import (
	"fmt"

	"github.com/jroosing/cdns/internal/cbor"
	"github.com/jroosing/cdns/internal/helpers"
)

// FileTypeID is the required value of File.FileTypeID.
const FileTypeID = "C-DNS"

// File is the top-level C-DNS value: a 3-element CBOR array.
type File struct {
	FileTypeID   string
	FilePreamble FilePreamble
	FileBlocks   []Block
}

// Marshal encodes the file as a 3-element CBOR array.
func (f File) Marshal() ([]byte, error) {
	blocks := f.FileBlocks
	return cbor.EncodeTuple([]cbor.TupleField{
		{Label: "file_type_id", Encode: func() ([]byte, error) { return cbor.EncodeScalar(f.FileTypeID) }},
		{Label: "file_preamble", Encode: func() ([]byte, error) { return f.FilePreamble.Marshal() }},
		{Label: "file_blocks", Encode: func() ([]byte, error) { return marshalBlockArray(blocks) }},
	})
}

// Decode decodes a File from data, failing fast at the first structural
// error encountered (path-qualified).
func Decode(data []byte) (File, error) {
	off := 0
	f, err := ParseFile(data, &off, "")
	if err != nil {
		return File{}, err
	}
	return f, nil
}

// Encode is the total encode function: infallible for any well-formed
// File value (an encode error here only occurs if a nested value cannot
// be represented in CBOR at all, which never happens for this data
// model's field types).
func Encode(f File) ([]byte, error) {
	return f.Marshal()
}

// ParseFile decodes a File (3-element array) at data[*off:].
func ParseFile(data []byte, off *int, path string) (File, error) {
	var f File
	fields := []cbor.TupleField{
		{Label: "file_type_id", Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &f.FileTypeID) }},
		{Label: "file_preamble", Decode: func(raw []byte) error {
			o := 0
			p, err := ParseFilePreamble(raw, &o, path+".file_preamble")
			f.FilePreamble = p
			return err
		}},
		{Label: "file_blocks", Decode: func(raw []byte) error {
			blocks, err := parseBlockArray(raw, path+".file_blocks")
			f.FileBlocks = blocks
			return err
		}},
	}
	if err := cbor.DecodeTuple(data, off, fields, path); err != nil {
		return File{}, err
	}
	if f.FileTypeID != FileTypeID {
		return File{}, fmt.Errorf("%w: file_type_id must be %q, got %q", ErrInvariant, FileTypeID, f.FileTypeID)
	}
	return f, nil
}

func marshalBlockArray(blocks []Block) ([]byte, error) {
	buf := cbor.AppendArrayHeader(nil, len(blocks))
	for i, b := range blocks {
		bb, err := b.Marshal()
		if err != nil {
			return nil, fmt.Errorf("file_blocks[%d]: %w", i, err)
		}
		buf = append(buf, bb...)
	}
	return buf, nil
}

func parseBlockArray(data []byte, path string) ([]Block, error) {
	off := 0
	count, indefinite, err := cbor.ReadArrayHeader(data, &off)
	if err != nil {
		return nil, err
	}
	var blocks []Block
	readOne := func(idx int) error {
		b, err := ParseBlock(data, &off, fmt.Sprintf("%s[%d]", path, idx))
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
		return nil
	}
	if indefinite {
		for i := 0; !cbor.PeekIsBreak(data, off); i++ {
			if err := readOne(i); err != nil {
				return nil, err
			}
		}
		if err := cbor.ConsumeBreak(data, &off); err != nil {
			return nil, err
		}
	} else {
		for i := int64(0); i < count; i++ {
			if err := readOne(int(i)); err != nil {
				return nil, err
			}
		}
	}
	return blocks, nil
}

// FilePreamble carries global version and parameter information.
type FilePreamble struct {
	MajorFormatVersion uint32
	MinorFormatVersion uint32
	PrivateVersion     *uint32
	BlockParameters    []BlockParameters
	Extras             cbor.Extras
}

// offset 1: RFC 8618's FilePreamble keys are declared starting at 1, as
// spec.md states explicitly (unlike every other record type here, whose
// keys follow the source's 0-based default).
const filePreambleOffset = 1

func (p *FilePreamble) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &p.Extras,
		Fields: []cbor.Field{
			{
				Index: 1, Label: "major_format_version", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(p.MajorFormatVersion) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &p.MajorFormatVersion) },
			},
			{
				Index: 2, Label: "minor_format_version", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(p.MinorFormatVersion) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &p.MinorFormatVersion) },
			},
			{
				Index: 3, Label: "private_version", Required: false,
				Present: func() bool { return p.PrivateVersion != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*p.PrivateVersion) },
				Decode: func(raw []byte) error {
					var v uint32
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					p.PrivateVersion = &v
					return nil
				},
			},
			{
				Index: 4, Label: "block_parameters", Required: true,
				Encode: func() ([]byte, error) { return marshalBlockParametersArray(p.BlockParameters) },
				Decode: func(raw []byte) error {
					bp, err := parseBlockParametersArray(raw, path+".block_parameters")
					p.BlockParameters = bp
					return err
				},
			},
		},
	}
}

// Marshal encodes the preamble as an indexed map.
func (p FilePreamble) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&p).fieldSet(""))
}

// ParseFilePreamble decodes a FilePreamble at data[*off:].
func ParseFilePreamble(data []byte, off *int, path string) (FilePreamble, error) {
	var p FilePreamble
	if err := cbor.DecodeIndexedMap(data, off, p.fieldSet(path), path); err != nil {
		return FilePreamble{}, err
	}
	if len(p.BlockParameters) == 0 {
		return FilePreamble{}, fmt.Errorf("%w: %s.block_parameters must have at least one entry", ErrInvariant, path)
	}
	return p, nil
}

func marshalBlockParametersArray(bps []BlockParameters) ([]byte, error) {
	buf := cbor.AppendArrayHeader(nil, len(bps))
	for i, bp := range bps {
		b, err := bp.Marshal()
		if err != nil {
			return nil, fmt.Errorf("block_parameters[%d]: %w", i, err)
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

func parseBlockParametersArray(data []byte, path string) ([]BlockParameters, error) {
	off := 0
	count, indefinite, err := cbor.ReadArrayHeader(data, &off)
	if err != nil {
		return nil, err
	}
	var out []BlockParameters
	i := 0
	readOne := func() error {
		bp, err := ParseBlockParameters(data, &off, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return err
		}
		out = append(out, bp)
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

// BlockParameters groups the storage and collection parameters shared by
// one or more Block items.
type BlockParameters struct {
	StorageParameters    StorageParameters
	CollectionParameters *CollectionParameters
	Extras               cbor.Extras
}

func (bp *BlockParameters) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: true,
		Extras:     &bp.Extras,
		Fields: []cbor.Field{
			{
				Index: 1, Label: "storage_parameters", Required: true,
				Encode: func() ([]byte, error) { return bp.StorageParameters.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					sp, err := ParseStorageParameters(raw, &o, path+".storage_parameters")
					bp.StorageParameters = sp
					return err
				},
			},
			{
				Index: 2, Label: "collection_parameters", Required: false,
				Present: func() bool { return bp.CollectionParameters != nil },
				Encode:  func() ([]byte, error) { return bp.CollectionParameters.Marshal() },
				Decode: func(raw []byte) error {
					o := 0
					cp, err := ParseCollectionParameters(raw, &o, path+".collection_parameters")
					bp.CollectionParameters = &cp
					return err
				},
			},
		},
	}
}

func (bp BlockParameters) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&bp).fieldSet(""))
}

func ParseBlockParameters(data []byte, off *int, path string) (BlockParameters, error) {
	var bp BlockParameters
	if err := cbor.DecodeIndexedMap(data, off, bp.fieldSet(path), path); err != nil {
		return BlockParameters{}, err
	}
	return bp, nil
}

// StorageParameters records how data was stored/collected for the Block
// items governed by it.
type StorageParameters struct {
	TicksPerSecond           uint64
	MaxBlockItems             uint64
	StorageHints              StorageHints
	Opcodes                   []uint8
	RRTypes                   []DnsType
	StorageFlags              *StorageFlags
	ClientAddressPrefixIPv4   *uint8
	ClientAddressPrefixIPv6   *uint8
	ServerAddressPrefixIPv4   *uint8
	ServerAddressPrefixIPv6   *uint8
	SamplingMethod            *string
	AnonymizationMethod       *string
	Extras                    cbor.Extras
}

// StorageFlags are producer-declared flags about anonymization/sampling
// applied before storage.
type StorageFlags uint32

const (
	StorageFlagAnonymizedIPAddress StorageFlags = 1 << iota
	StorageFlagAnonymizedTransactionIDs
)

func (sp *StorageParameters) fieldSet(path string) *cbor.FieldSet {
	return &cbor.FieldSet{
		EmitLength: false, // the source sets emit_length = false on this type
		Extras:     &sp.Extras,
		Fields: []cbor.Field{
			{Index: 1, Label: "ticks_per_second", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(sp.TicksPerSecond) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &sp.TicksPerSecond) }},
			{Index: 2, Label: "max_block_items", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(sp.MaxBlockItems) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &sp.MaxBlockItems) }},
			{Index: 3, Label: "storage_hints", Required: true,
				Encode: func() ([]byte, error) { return marshalStorageHints(sp.StorageHints) },
				Decode: func(raw []byte) error {
					h, err := parseStorageHints(raw, path+".storage_hints")
					sp.StorageHints = h
					return err
				}},
			{Index: 4, Label: "opcodes", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(sp.Opcodes) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &sp.Opcodes) }},
			{Index: 5, Label: "rr_types", Required: true,
				Encode: func() ([]byte, error) { return cbor.EncodeScalar(sp.RRTypes) },
				Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &sp.RRTypes) }},
			{Index: 6, Label: "storage_flags", Required: false,
				Present: func() bool { return sp.StorageFlags != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*sp.StorageFlags) },
				Decode: func(raw []byte) error {
					var v StorageFlags
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					sp.StorageFlags = &v
					return nil
				}},
			{Index: 7, Label: "client_address_prefix_ipv4", Required: false,
				Present: func() bool { return sp.ClientAddressPrefixIPv4 != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*sp.ClientAddressPrefixIPv4) },
				Decode:  decodeOptionalU8Prefix(&sp.ClientAddressPrefixIPv4, "client_address_prefix_ipv4", 1, 32)},
			{Index: 8, Label: "client_address_prefix_ipv6", Required: false,
				Present: func() bool { return sp.ClientAddressPrefixIPv6 != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*sp.ClientAddressPrefixIPv6) },
				Decode:  decodeOptionalU8Prefix(&sp.ClientAddressPrefixIPv6, "client_address_prefix_ipv6", 1, 128)},
			{Index: 9, Label: "server_address_prefix_ipv4", Required: false,
				Present: func() bool { return sp.ServerAddressPrefixIPv4 != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*sp.ServerAddressPrefixIPv4) },
				Decode:  decodeOptionalU8Prefix(&sp.ServerAddressPrefixIPv4, "server_address_prefix_ipv4", 1, 32)},
			{Index: 10, Label: "server_address_prefix_ipv6", Required: false,
				Present: func() bool { return sp.ServerAddressPrefixIPv6 != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*sp.ServerAddressPrefixIPv6) },
				Decode:  decodeOptionalU8Prefix(&sp.ServerAddressPrefixIPv6, "server_address_prefix_ipv6", 1, 128)},
			{Index: 11, Label: "sampling_method", Required: false,
				Present: func() bool { return sp.SamplingMethod != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*sp.SamplingMethod) },
				Decode: func(raw []byte) error {
					var v string
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					sp.SamplingMethod = &v
					return nil
				}},
			{Index: 12, Label: "anonymization_method", Required: false,
				Present: func() bool { return sp.AnonymizationMethod != nil },
				Encode:  func() ([]byte, error) { return cbor.EncodeScalar(*sp.AnonymizationMethod) },
				Decode: func(raw []byte) error {
					var v string
					if err := cbor.DecodeScalar(raw, &v); err != nil {
						return err
					}
					sp.AnonymizationMethod = &v
					return nil
				}},
		},
	}
}

// decodeOptionalU8Prefix validates a prefix-length field falls in
// [lo,hi], storing it as a *uint8 on success.
func decodeOptionalU8Prefix(dst **uint8, label string, lo, hi int) func([]byte) error {
	return func(raw []byte) error {
		var v uint8
		if err := cbor.DecodeScalar(raw, &v); err != nil {
			return err
		}
		if int(v) < lo || int(v) > hi {
			return newRangeViolationErr(label)
		}
		clamped := helpers.ClampUint32ToUint8(uint32(v))
		dst2 := clamped
		*dst = &dst2
		return nil
	}
}

func (sp StorageParameters) Marshal() ([]byte, error) {
	return cbor.EncodeIndexedMap((&sp).fieldSet(""))
}

func ParseStorageParameters(data []byte, off *int, path string) (StorageParameters, error) {
	var sp StorageParameters
	if err := cbor.DecodeIndexedMap(data, off, sp.fieldSet(path), path); err != nil {
		return StorageParameters{}, err
	}
	if sp.Opcodes != nil {
		for _, op := range sp.Opcodes {
			if op > 15 {
				return StorageParameters{}, newRangeViolationErrAt(path, "opcodes")
			}
		}
	}
	return sp, nil
}

func marshalStorageHints(h StorageHints) ([]byte, error) {
	buf := cbor.AppendMapHeader(nil, 4)
	write := func(k int64, v uint64) error {
		enc, err := cbor.EncodeScalar(v)
		if err != nil {
			return err
		}
		buf = cbor.AppendKey(buf, k)
		buf = append(buf, enc...)
		return nil
	}
	if err := write(1, uint64(h.QueryResponseHints)); err != nil {
		return nil, err
	}
	if err := write(2, uint64(h.QueryResponseSignatureHints)); err != nil {
		return nil, err
	}
	if err := write(3, uint64(h.RRHints)); err != nil {
		return nil, err
	}
	if err := write(4, uint64(h.OtherDataHints)); err != nil {
		return nil, err
	}
	return buf, nil
}

func parseStorageHints(data []byte, path string) (StorageHints, error) {
	off := 0
	var h StorageHints
	fs := &cbor.FieldSet{
		EmitLength: true,
		Extras:     &cbor.Extras{},
		Fields: []cbor.Field{
			{Index: 1, Label: "query_response_hints", Required: true,
				Decode: func(raw []byte) error {
					var v uint32
					err := cbor.DecodeScalar(raw, &v)
					h.QueryResponseHints = QueryResponseHints(v)
					return err
				}},
			{Index: 2, Label: "query_response_signature_hints", Required: true,
				Decode: func(raw []byte) error {
					var v uint32
					err := cbor.DecodeScalar(raw, &v)
					h.QueryResponseSignatureHints = QueryResponseSignatureHints(v)
					return err
				}},
			{Index: 3, Label: "rr_hints", Required: true,
				Decode: func(raw []byte) error {
					var v uint8
					err := cbor.DecodeScalar(raw, &v)
					h.RRHints = RRHints(v)
					return err
				}},
			{Index: 4, Label: "other_data_hints", Required: true,
				Decode: func(raw []byte) error {
					var v uint8
					err := cbor.DecodeScalar(raw, &v)
					h.OtherDataHints = OtherDataHints(v)
					return err
				}},
		},
	}
	if err := cbor.DecodeIndexedMap(data, &off, fs, path); err != nil {
		return StorageHints{}, err
	}
	return h, nil
}
