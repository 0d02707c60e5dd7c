package cbor

import "fmt"

// TupleField is one positional slot of a fixed-arity CBOR array record
// (File, Timestamp). There is no extras mechanism at the tuple level and
// no skip-if-absent semantics: every slot is always encoded/decoded.
type TupleField struct {
	Label  string
	Encode func() ([]byte, error)
	Decode func(raw []byte) error
}

// EncodeTuple serialises fields as a definite-length CBOR array in
// declaration order.
func EncodeTuple(fields []TupleField) ([]byte, error) {
	buf := AppendArrayHeader(nil, len(fields))
	for _, f := range fields {
		v, err := f.Encode()
		if err != nil {
			return nil, fmt.Errorf("cbor: encode tuple field %q: %w", f.Label, err)
		}
		buf = append(buf, v...)
	}
	return buf, nil
}

// DecodeTuple reads a CBOR array of exactly len(fields) elements at
// data[*off:] into fields, in order, advancing *off past it. Arity
// mismatch (too few or too many elements, either length mode) is fatal.
func DecodeTuple(data []byte, off *int, fields []TupleField, path string) error {
	count, indefinite, err := ReadArrayHeader(data, off)
	if err != nil {
		return newErr(KindInvalidCBOR, path, "").withCause(err)
	}
	if !indefinite && count != int64(len(fields)) {
		return newErr(KindWrongArity, path, "")
	}
	for i, f := range fields {
		if indefinite && PeekIsBreak(data, *off) {
			return newErr(KindWrongArity, path, f.Label)
		}
		valBytes, err := SkipValue(data, off)
		if err != nil {
			return newErr(KindInvalidCBOR, path, f.Label).withCause(err)
		}
		if err := f.Decode(valBytes); err != nil {
			var de *DecodeError
			if errorsAs(err, &de) {
				return de
			}
			return newErr(KindInvalidCBOR, path, f.Label).withCause(err)
		}
		_ = i
	}
	if indefinite {
		if !PeekIsBreak(data, *off) {
			return newErr(KindWrongArity, path, "")
		}
		if err := ConsumeBreak(data, off); err != nil {
			return newErr(KindInvalidCBOR, path, "").withCause(err)
		}
	}
	return nil
}
