package cdns

import (
	"errors"
	"testing"

	"github.com/jroosing/cdns/internal/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryResponseSignatureRoundTrip(t *testing.T) {
	rcode := uint16(0)
	qrType := QueryResponseAuthoritative
	s := QueryResponseSignature{QueryRcode: &rcode, QrType: &qrType}
	buf, err := s.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseQueryResponseSignature(buf, &off, "")
	require.NoError(t, err)
	require.NotNil(t, out.QrType)
	assert.Equal(t, qrType, *out.QrType)
}

func TestQueryResponseSignatureInvalidQrTypeFailsDecode(t *testing.T) {
	buf := cbor.AppendMapHeader(nil, 1)
	buf = cbor.AppendKey(buf, 3)
	enc, err := cbor.EncodeScalar(uint8(200))
	require.NoError(t, err)
	buf = append(buf, enc...)

	off := 0
	_, err = ParseQueryResponseSignature(buf, &off, "qr_sig")
	require.Error(t, err)
	var de *cbor.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, cbor.KindInvalidVariant, de.Kind)
	assert.Equal(t, "qr_type", de.Label)
}
