package cbor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeTupleRoundTrip(t *testing.T) {
	var a uint64
	var b string
	fields := []TupleField{
		{Label: "a", Encode: func() ([]byte, error) { return EncodeScalar(uint64(42)) }, Decode: func(raw []byte) error { return DecodeScalar(raw, &a) }},
		{Label: "b", Encode: func() ([]byte, error) { return EncodeScalar("hello") }, Decode: func(raw []byte) error { return DecodeScalar(raw, &b) }},
	}
	buf, err := EncodeTuple(fields)
	require.NoError(t, err)

	var a2 uint64
	var b2 string
	decodeFields := []TupleField{
		{Label: "a", Decode: func(raw []byte) error { return DecodeScalar(raw, &a2) }},
		{Label: "b", Decode: func(raw []byte) error { return DecodeScalar(raw, &b2) }},
	}
	off := 0
	require.NoError(t, DecodeTuple(buf, &off, decodeFields, ""))
	assert.Equal(t, len(buf), off)
	assert.Equal(t, uint64(42), a2)
	assert.Equal(t, "hello", b2)
}

func TestDecodeTupleWrongArity(t *testing.T) {
	buf := AppendArrayHeader(nil, 1)
	buf = append(buf, mustEncodeScalar(t, uint64(1))...)

	fields := []TupleField{
		{Label: "a", Decode: func([]byte) error { return nil }},
		{Label: "b", Decode: func([]byte) error { return nil }},
	}
	off := 0
	err := DecodeTuple(buf, &off, fields, "")
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, KindWrongArity, de.Kind)
}
