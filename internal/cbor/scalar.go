package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeScalar marshals a plain leaf value (integers, strings, []byte,
// bool, float64, or anything fxamacker/cbor knows how to marshal) to its
// CBOR bytes. Every Field.Encode closure in internal/cdns bottoms out
// here (or in a nested record's own Marshal method).
func EncodeScalar(v any) ([]byte, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor: encode scalar: %w", ErrCodec)
	}
	return b, nil
}

// DecodeScalar unmarshals raw CBOR bytes into dst (a pointer).
func DecodeScalar(raw []byte, dst any) error {
	if err := cbor.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("cbor: decode scalar: %w", ErrCodec)
	}
	return nil
}
