package cdns

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIpAddrAsIPv4ZeroPadsTruncatedPrefix(t *testing.T) {
	a := IpAddr{192, 168}
	addr, err := a.AsIPv4()
	require.NoError(t, err)
	assert.Equal(t, netip.AddrFrom4([4]byte{192, 168, 0, 0}), addr)
}

func TestIpAddrAsIPv4RejectsTooManyBytes(t *testing.T) {
	a := IpAddr{1, 2, 3, 4, 5}
	_, err := a.AsIPv4()
	assert.Error(t, err)
}

func TestIpAddrAsIPv6ZeroPadsTruncatedPrefix(t *testing.T) {
	a := IpAddr{0x20, 0x01, 0x0d, 0xb8}
	addr, err := a.AsIPv6()
	require.NoError(t, err)
	assert.True(t, addr.Is6())
	assert.Equal(t, byte(0x20), addr.As16()[0])
	assert.Equal(t, byte(0), addr.As16()[15])
}

func TestIpAddrAsIPv6RejectsTooManyBytes(t *testing.T) {
	a := make(IpAddr, 17)
	_, err := a.AsIPv6()
	assert.Error(t, err)
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := Timestamp{Seconds: 1700000000, TicksInSecond: 500}
	buf, err := ts.Marshal()
	require.NoError(t, err)

	off := 0
	out, err := ParseTimestamp(buf, &off, "")
	require.NoError(t, err)
	assert.Equal(t, ts, out)
	assert.Equal(t, len(buf), off)
}

func TestTransportFlagsDecoding(t *testing.T) {
	f := TransportFlags(0b0010_0011) // IPv6, TCP, trailing data
	assert.True(t, f.IsIPv6())
	assert.Equal(t, TransportTCP, f.TransportProtocol())
	assert.True(t, f.HasTrailingData())
}

func TestTransportFlagsUDPIPv4(t *testing.T) {
	f := TransportFlags(0)
	assert.True(t, f.IsIPv4())
	assert.Equal(t, TransportUDP, f.TransportProtocol())
	assert.False(t, f.HasTrailingData())
}
