package cbor

import (
	"errors"
	"fmt"
	"strings"
)

func errorsAs(err error, target **DecodeError) bool {
	return errors.As(err, target)
}

// nullValue is the single-byte CBOR encoding of null (major 7, value 22).
const nullValue = 0xf6

// Field describes one recognised field of a record type for the indexed
// map engine. Index is declared_index + offset, already resolved by the
// caller (each record type's own constructor picks its offset once).
type Field struct {
	Index    int64
	Label    string
	Required bool
	// Present reports whether the field currently holds a value to
	// encode. Ignored for required fields (always encoded).
	Present func() bool
	// Encode returns the CBOR-encoded bytes of the field's current
	// value. Only called when the field is present (or required).
	Encode func() ([]byte, error)
	// Decode is given the raw CBOR bytes of the field's value (already
	// sliced out by the engine) and must store it. Decode is not
	// called at all if the wire value was CBOR null and the field is
	// optional (null on an optional field decodes to "absent").
	Decode func(raw []byte) error
}

// FieldSet is the full per-record-type table consulted by
// EncodeIndexedMap/DecodeIndexedMap.
type FieldSet struct {
	Fields     []Field
	EmitLength bool // false: encoder always chooses indefinite length
	Extras     *Extras
}

// EncodeIndexedMap serialises fs as a CBOR map: recognised fields in
// declaration order, keyed by Field.Index, followed by the extras map's
// entries in ascending key order.
func EncodeIndexedMap(fs *FieldSet) ([]byte, error) {
	type pending struct {
		key   int64
		value []byte
	}
	var items []pending
	for _, f := range fs.Fields {
		if !f.Required && f.Present != nil && !f.Present() {
			continue
		}
		v, err := f.Encode()
		if err != nil {
			return nil, fmt.Errorf("cbor: encode field %q: %w", f.Label, err)
		}
		items = append(items, pending{key: f.Index, value: v})
	}
	extraKeys := fs.Extras.Keys()

	var buf []byte
	total := len(items) + len(extraKeys)
	if fs.EmitLength {
		buf = AppendMapHeader(buf, total)
	} else {
		buf = AppendIndefiniteMapHeader(buf)
	}
	for _, it := range items {
		buf = AppendKey(buf, it.key)
		buf = append(buf, it.value...)
	}
	for _, k := range extraKeys {
		v, _ := fs.Extras.Get(k)
		buf = AppendKey(buf, k)
		buf = append(buf, v.Raw()...)
	}
	if !fs.EmitLength {
		buf = AppendBreak(buf)
	}
	return buf, nil
}

// DecodeIndexedMap reads a CBOR map (either length mode) at data[*off:]
// into fs, advancing *off past it. path is used to build DecodeError
// positions.
func DecodeIndexedMap(data []byte, off *int, fs *FieldSet, path string) error {
	count, indefinite, err := ReadMapHeader(data, off)
	if err != nil {
		return newErr(KindInvalidCBOR, path, "").withCause(err)
	}

	byIndex := make(map[int64]*Field, len(fs.Fields))
	for i := range fs.Fields {
		byIndex[fs.Fields[i].Index] = &fs.Fields[i]
	}
	seen := make(map[int64]bool, len(fs.Fields))

	readOne := func() error {
		key, err := ReadKey(data, off)
		if err != nil {
			return newErr(KindInvalidCBOR, path, "").withCause(err)
		}
		if f, ok := byIndex[key]; ok {
			if seen[key] {
				return newErr(KindDuplicateField, path, f.Label)
			}
			seen[key] = true
			valBytes, err := SkipValue(data, off)
			if err != nil {
				return newErr(KindInvalidCBOR, path, f.Label).withCause(err)
			}
			if len(valBytes) == 1 && valBytes[0] == nullValue {
				if f.Required {
					return newErr(KindMissingField, path, f.Label)
				}
				return nil
			}
			if err := f.Decode(valBytes); err != nil {
				var de *DecodeError
				if errorsAs(err, &de) {
					// An error from a nested record already carries the
					// full path its Parse call was given; only a leaf
					// error (Path "."+label) still needs this record's.
					if strings.HasPrefix(de.Path, path) {
						return de
					}
					return de.WithPath(path)
				}
				return newErr(KindInvalidCBOR, path, f.Label).withCause(err)
			}
			return nil
		}
		if key < 0 {
			valBytes, err := SkipValue(data, off)
			if err != nil {
				return newErr(KindInvalidCBOR, path, "").withCause(err)
			}
			if fs.Extras.entries == nil {
				fs.Extras.entries = make(map[int64]Value)
			}
			fs.Extras.Set(key, ValueFromRaw(valBytes))
			return nil
		}
		return newErr(KindUnknownFieldIndex, path, "")
	}

	if indefinite {
		for !PeekIsBreak(data, *off) {
			if err := readOne(); err != nil {
				return err
			}
		}
		if err := ConsumeBreak(data, off); err != nil {
			return newErr(KindInvalidCBOR, path, "").withCause(err)
		}
	} else {
		for i := int64(0); i < count; i++ {
			if err := readOne(); err != nil {
				return err
			}
		}
	}

	for i := range fs.Fields {
		f := &fs.Fields[i]
		if f.Required && !seen[f.Index] {
			return newErr(KindMissingField, path, f.Label)
		}
	}
	return nil
}

func (e *DecodeError) withCause(err error) *DecodeError {
	e.Err = err
	return e
}
