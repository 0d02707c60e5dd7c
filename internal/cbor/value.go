package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ValueKind classifies the top-level shape of a Value without fully
// decoding it.
type ValueKind int

const (
	ValueInvalid ValueKind = iota
	ValueUint
	ValueInt
	ValueBytes
	ValueText
	ValueArray
	ValueMap
	ValueTag
	ValueBool
	ValueFloat
	ValueNull
)

// Value is the abstract CBOR value used to hold unrecognised extension
// payloads (captured under negative extras keys) and any other nested
// content the data model does not interpret structurally. It stores the
// exact bytes it was decoded from, so re-encoding an untouched Value is
// byte-identical.
type Value struct {
	raw cbor.RawMessage
}

// ValueFromRaw wraps already-encoded CBOR bytes without re-encoding them.
func ValueFromRaw(raw []byte) Value {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return Value{raw: cp}
}

// ValueFromGo encodes a plain Go value (string, int64, uint64, []byte,
// bool, float64, nil, or a slice/map of these) into a Value.
func ValueFromGo(v any) (Value, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("cbor: encode value: %w", ErrCodec)
	}
	return Value{raw: b}, nil
}

// Raw returns the exact CBOR bytes backing this value.
func (v Value) Raw() []byte {
	return []byte(v.raw)
}

// IsZero reports whether v holds no bytes (the zero Value).
func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

// MarshalCBOR implements cbor.Marshaler by emitting the stored bytes
// verbatim.
func (v Value) MarshalCBOR() ([]byte, error) {
	if len(v.raw) == 0 {
		return cbor.Marshal(nil)
	}
	return []byte(v.raw), nil
}

// UnmarshalCBOR implements cbor.Unmarshaler by capturing the raw bytes of
// whatever value follows, unexamined.
func (v *Value) UnmarshalCBOR(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	v.raw = cp
	return nil
}

// Kind classifies the value's top-level CBOR major type.
func (v Value) Kind() ValueKind {
	if len(v.raw) == 0 {
		return ValueInvalid
	}
	switch v.raw[0] >> 5 {
	case majorUnsigned:
		return ValueUint
	case majorNegative:
		return ValueInt
	case majorByteStr:
		return ValueBytes
	case majorTextStr:
		return ValueText
	case majorArray:
		return ValueArray
	case majorMap:
		return ValueMap
	case majorTag:
		return ValueTag
	case majorSimple:
		switch v.raw[0] {
		case 0xf4, 0xf5:
			return ValueBool
		case 0xf6, 0xf7:
			return ValueNull
		default:
			return ValueFloat
		}
	default:
		return ValueInvalid
	}
}

// Interface decodes the value into the generic Go representation
// fxamacker/cbor produces for an untyped target.
func (v Value) Interface() (any, error) {
	var out any
	if len(v.raw) == 0 {
		return nil, nil
	}
	if err := cbor.Unmarshal(v.raw, &out); err != nil {
		return nil, fmt.Errorf("cbor: decode value: %w", ErrCodec)
	}
	return out, nil
}

// Equal reports whether two values parse to the same CBOR abstract value.
// Byte-identical equality is not required (map-entry order and
// length-header mode may legitimately differ).
func (v Value) Equal(other Value) bool {
	a, errA := v.Interface()
	b, errB := other.Interface()
	if errA != nil || errB != nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Extras is an ordered mapping from signed integer key to CBOR value,
// populated during decode with every negative key encountered on a
// record's map. Encoding always emits entries in ascending key order
// regardless of insertion order, which is what makes re-encoding
// deterministic.
type Extras struct {
	entries map[int64]Value
	order   []int64 // insertion order, for iteration prior to sort-on-encode
}

// Set inserts or replaces the value for key.
func (e *Extras) Set(key int64, v Value) {
	if e.entries == nil {
		e.entries = make(map[int64]Value)
	}
	if _, exists := e.entries[key]; !exists {
		e.order = append(e.order, key)
	}
	e.entries[key] = v
}

// Get returns the value for key and whether it was present.
func (e *Extras) Get(key int64) (Value, bool) {
	if e == nil || e.entries == nil {
		return Value{}, false
	}
	v, ok := e.entries[key]
	return v, ok
}

// Len reports the number of entries.
func (e *Extras) Len() int {
	if e == nil {
		return 0
	}
	return len(e.entries)
}

// Keys returns the entries' keys in ascending order (the order encode
// uses).
func (e *Extras) Keys() []int64 {
	if e == nil {
		return nil
	}
	keys := make([]int64, 0, len(e.entries))
	for _, k := range e.order {
		keys = append(keys, k)
	}
	sortInt64s(keys)
	return keys
}

func sortInt64s(s []int64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
