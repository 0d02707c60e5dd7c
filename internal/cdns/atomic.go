package cdns

import (
	"fmt"
	"net/netip"

	"github.com/jroosing/cdns/internal/cbor"
)

// DnsClass is an opaque 16-bit DNS CLASS value.
type DnsClass uint16

// DnsType is an opaque 16-bit DNS TYPE value.
type DnsType uint16

// OptPseudoRRType is the TYPE value (41) reserved for the OPT pseudo-RR,
// used by the formatter to special-case ClassType rendering.
const OptPseudoRRType DnsType = 41

// IpAddr is an IP address stored as the raw byte string C-DNS captured
// it as: up to 4 bytes for IPv4, up to 16 bytes for IPv6, possibly
// truncated to a configured address-prefix length.
type IpAddr []byte

// AsIPv4 interprets the address as an IPv4 address, zero-padding a
// truncated prefix out to 4 bytes. It fails if more than 4 bytes were
// stored (the address cannot have been an IPv4 address).
func (a IpAddr) AsIPv4() (netip.Addr, error) {
	if len(a) > 4 {
		return netip.Addr{}, fmt.Errorf("cdns: IpAddr has %d bytes, too many for IPv4", len(a))
	}
	var b [4]byte
	copy(b[:], a)
	return netip.AddrFrom4(b), nil
}

// AsIPv6 interprets the address as an IPv6 address, zero-padding a
// truncated prefix out to 16 bytes. It fails if more than 16 bytes were
// stored.
func (a IpAddr) AsIPv6() (netip.Addr, error) {
	if len(a) > 16 {
		return netip.Addr{}, fmt.Errorf("cdns: IpAddr has %d bytes, too many for IPv6", len(a))
	}
	var b [16]byte
	copy(b[:], a)
	return netip.AddrFrom16(b), nil
}

// NameOrRdata is a byte string carrying either a wire-format domain name
// or opaque RDATA; interpretation depends on the ClassType it is paired
// with via a BlockTables cross-reference.
type NameOrRdata []byte

// Ticks is a signed sub-second tick count (e.g. a Query/Response delay,
// which may be negative if packets were captured out of order).
type Ticks int32

// UTicks is an unsigned sub-second tick count (e.g. a time offset from
// BlockPreamble.EarliestTime).
type UTicks uint32

// Timestamp is a point in time expressed as seconds since the Unix epoch
// plus a sub-second tick count, encoded as a 2-element CBOR array.
type Timestamp struct {
	Seconds       int32
	TicksInSecond uint32
}

func (t Timestamp) tupleFields() []cbor.TupleField {
	return []cbor.TupleField{
		{Label: "seconds", Encode: func() ([]byte, error) { return cbor.EncodeScalar(t.Seconds) }},
		{Label: "ticks", Encode: func() ([]byte, error) { return cbor.EncodeScalar(t.TicksInSecond) }},
	}
}

// Marshal encodes the timestamp as a 2-element CBOR array.
func (t Timestamp) Marshal() ([]byte, error) {
	return cbor.EncodeTuple(t.tupleFields())
}

// ParseTimestamp decodes a 2-element CBOR array timestamp at
// data[*off:].
func ParseTimestamp(data []byte, off *int, path string) (Timestamp, error) {
	var t Timestamp
	fields := []cbor.TupleField{
		{Label: "seconds", Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &t.Seconds) }},
		{Label: "ticks", Decode: func(raw []byte) error { return cbor.DecodeScalar(raw, &t.TicksInSecond) }},
	}
	if err := cbor.DecodeTuple(data, off, fields, path); err != nil {
		return Timestamp{}, err
	}
	return t, nil
}

// Transport enumerates the transport protocol bits of TransportFlags.
type Transport int

const (
	TransportUDP Transport = iota
	TransportTCP
	TransportTLS
	TransportDTLS
	TransportHTTPS
	TransportReserved
	TransportNonStandard
)

// TransportFlags is a packed byte: bit 0 is IP version (0=v4, 1=v6),
// bits 1-4 are the transport enum, bit 5 is "query has trailing bytes".
type TransportFlags uint8

func (f TransportFlags) IsIPv4() bool { return f&0x01 == 0 }
func (f TransportFlags) IsIPv6() bool { return !f.IsIPv4() }

func (f TransportFlags) TransportProtocol() Transport {
	switch (f & 0b0001_1110) >> 1 {
	case 0:
		return TransportUDP
	case 1:
		return TransportTCP
	case 2:
		return TransportTLS
	case 3:
		return TransportDTLS
	case 4:
		return TransportHTTPS
	case 15:
		return TransportNonStandard
	default:
		return TransportReserved
	}
}

func (f TransportFlags) HasTrailingData() bool { return f&0b0010_0000 != 0 }

func (f TransportFlags) String() string {
	s := "IPv4"
	if f.IsIPv6() {
		s = "IPv6"
	}
	switch f.TransportProtocol() {
	case TransportUDP:
		s += " | UDP"
	case TransportTCP:
		s += " | TCP"
	case TransportTLS:
		s += " | TLS"
	case TransportDTLS:
		s += " | DTLS"
	case TransportHTTPS:
		s += " | HTTPS"
	case TransportNonStandard:
		s += " | Non-Standard"
	default:
		s += " | Reserved"
	}
	if f.HasTrailingData() {
		s += " | Query has trailing data"
	}
	return s
}
