// Package cbor implements the container-level CBOR codec this module
// needs: a small abstract value type for unrecognised extension payloads,
// a hand-rolled map/array header reader and writer, and the indexed-map
// and typed-tuple engines built on top of them. Every scalar leaf value
// (integers, strings, bools, floats, tags) is marshaled through
// github.com/fxamacker/cbor/v2; only container framing is hand-rolled.
//
// Error Handling:
//
// All errors are wrapped with context using fmt.Errorf("...: %w", err),
// anchored on the single ErrCodec sentinel; a decode failure's kind is
// carried by DecodeError.Kind.
package cbor

import "errors"

// Kind enumerates the DecodeError failure modes a record-level decode can
// raise.
type Kind string

const (
	KindInvalidCBOR       Kind = "invalid_cbor"
	KindUnexpectedTag     Kind = "unexpected_tag"
	KindWrongArity        Kind = "wrong_arity"
	KindMissingField      Kind = "missing_field"
	KindDuplicateField    Kind = "duplicate_field"
	KindUnknownFieldIndex Kind = "unknown_field_index"
	KindInvalidVariant    Kind = "invalid_variant"
	KindRangeViolation    Kind = "range_violation"
)

// ErrCodec is the sentinel wrapped by every error this package returns.
// Wrap it further with fmt.Errorf("context: %w", ErrCodec) at call sites,
// or inspect a returned error's Kind via errors.As into *DecodeError.
var ErrCodec = errors.New("cbor codec error")

// DecodeError reports a decode failure together with the dotted path from
// the document root to the offending position (e.g.
// "file_blocks[3].query_responses[17].query_size") and, where relevant,
// the field label that triggered it.
type DecodeError struct {
	Kind  Kind
	Path  string
	Label string
	Err   error // wrapped cause, if any (e.g. an underlying fxamacker/cbor error)
}

func (e *DecodeError) Error() string {
	if e.Label != "" {
		return string(e.Kind) + " at " + e.Path + " (" + e.Label + ")"
	}
	return string(e.Kind) + " at " + e.Path
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCodec, e.Err}
	}
	return []error{ErrCodec}
}

// WithPath returns a copy of e with path prepended by prefix (used as
// decode unwinds out of nested records/arrays).
func (e *DecodeError) WithPath(prefix string) *DecodeError {
	cp := *e
	cp.Path = prefix + cp.Path
	return &cp
}

func newErr(kind Kind, path, label string) *DecodeError {
	return &DecodeError{Kind: kind, Path: path, Label: label}
}
