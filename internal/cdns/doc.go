// Package cdns implements the RFC 8618 ("Compacted-DNS", C-DNS) data
// model: File and every record type nested under it, each wired to the
// indexed-map and typed-tuple engines in internal/cbor for lossless
// encode/decode, including preservation of vendor-private extension data
// under negative map keys.
//
// Error Handling:
//
// Invariant violations that are not CBOR decode errors (e.g. an
// out-of-range table index discovered while iterating, rather than while
// decoding) are reported via ErrInvariant, wrapped with
// fmt.Errorf("context: %w", ErrInvariant).
package cdns

import (
	"errors"

	"github.com/jroosing/cdns/internal/cbor"
)

// ErrInvariant is the sentinel for data-model invariant violations
// discovered outside of CBOR decoding itself (see internal/iterators).
var ErrInvariant = errors.New("cdns: invariant violation")

// newInvalidVariantErr builds a cbor.DecodeError for an enum-valued field
// whose wire value is not one of the declared variants. Path is seeded
// with a leading dot holding the field label; DecodeIndexedMap's
// readOne prepends the enclosing record's own path onto it as decoding
// unwinds (see (*DecodeError).WithPath), so the error that reaches the
// caller carries the full dotted path down to the failing field, e.g.
// "qr_sig[3].qr_type".
func newInvalidVariantErr(label string) error {
	return &cbor.DecodeError{Kind: cbor.KindInvalidVariant, Path: "." + label, Label: label}
}

// newRangeViolationErr builds a cbor.DecodeError for a field whose value
// is validated inline, inside its own Decode closure; see
// newInvalidVariantErr for how Path ends up fully qualified.
func newRangeViolationErr(label string) error {
	return &cbor.DecodeError{Kind: cbor.KindRangeViolation, Path: "." + label, Label: label}
}

// newRangeViolationErrAt builds a cbor.DecodeError for a range check
// performed after a record has already finished decoding (so there is no
// enclosing Decode closure left for the engine to prepend a path onto),
// and so takes the record's own path explicitly instead.
func newRangeViolationErrAt(path, label string) error {
	return &cbor.DecodeError{Kind: cbor.KindRangeViolation, Path: path + "." + label, Label: label}
}

// Describable is implemented by every indexed-map record type (via its
// unexported fieldSet method). It lets internal/format walk a record's
// declared fields and extras without each record type needing its own
// hand-written printer.
type Describable interface {
	fieldSet(path string) *cbor.FieldSet
}

// DescribedField is one declared field of a record, in declaration
// order, as reported by Describe.
type DescribedField struct {
	Label   string
	Present bool
	Value   cbor.Value
}

// Describe walks d's field table, encoding each present field's current
// value so a formatter can render it without re-implementing per-type
// field lists. It also returns the record's extras.
func Describe(d Describable) ([]DescribedField, cbor.Extras, error) {
	fs := d.fieldSet("")
	out := make([]DescribedField, 0, len(fs.Fields))
	for _, f := range fs.Fields {
		present := f.Required || (f.Present != nil && f.Present())
		df := DescribedField{Label: f.Label, Present: present}
		if present {
			raw, err := f.Encode()
			if err != nil {
				return nil, cbor.Extras{}, err
			}
			df.Value = cbor.ValueFromRaw(raw)
		}
		out = append(out, df)
	}
	var extras cbor.Extras
	if fs.Extras != nil {
		extras = *fs.Extras
	}
	return out, extras, nil
}
