package cdns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMalformedMessageDataRoundTrip(t *testing.T) {
	port := uint16(53)
	flags := TransportFlags(0)
	m := MalformedMessageData{ServerPort: &port, MMTransportFlags: &flags, MMPayload: []byte{1, 2, 3}}
	buf, err := m.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseMalformedMessageData(buf, &off, "")
	require.NoError(t, err)
	require.NotNil(t, out.ServerPort)
	assert.Equal(t, port, *out.ServerPort)
	assert.Equal(t, []byte{1, 2, 3}, out.MMPayload)
}

func TestMalformedMessageRoundTrip(t *testing.T) {
	offset := UTicks(7)
	dataIdx := uint64(2)
	m := MalformedMessage{TimeOffset: &offset, MessageDataIndex: &dataIdx}
	buf, err := m.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseMalformedMessage(buf, &off, "")
	require.NoError(t, err)
	require.NotNil(t, out.TimeOffset)
	assert.Equal(t, offset, *out.TimeOffset)
	require.NotNil(t, out.MessageDataIndex)
	assert.Equal(t, dataIdx, *out.MessageDataIndex)
}
