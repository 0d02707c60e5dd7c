package cbor

import (
	"encoding/binary"
	"fmt"
)

// CBOR major types (RFC 7049 §2.1).
const (
	majorUnsigned = 0
	majorNegative = 1
	majorByteStr  = 2
	majorTextStr  = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7
)

const breakByte = 0xFF

// head is the decoded initial-byte-plus-argument of one CBOR item.
type head struct {
	major    byte
	arg      uint64
	indef    bool // additional info was 31 (array/map/string/byte-string only)
	simple   bool // major 7, non-float immediate (bool/null/undefined/etc.)
	floatLen int  // major 7 float width in bytes, 0 if not a float
}

// readHead decodes the initial byte (and any following argument bytes) of
// the CBOR item at data[*off:], advancing *off past it.
func readHead(data []byte, off *int) (head, error) {
	if *off >= len(data) {
		return head{}, fmt.Errorf("%w: unexpected end of CBOR input", ErrCodec)
	}
	b := data[*off]
	*off++
	major := b >> 5
	info := b & 0x1f

	h := head{major: major}
	switch {
	case info < 24:
		h.arg = uint64(info)
	case info == 24:
		if *off+1 > len(data) {
			return head{}, fmt.Errorf("%w: truncated 1-byte argument", ErrCodec)
		}
		h.arg = uint64(data[*off])
		*off++
	case info == 25:
		if *off+2 > len(data) {
			return head{}, fmt.Errorf("%w: truncated 2-byte argument", ErrCodec)
		}
		h.arg = uint64(binary.BigEndian.Uint16(data[*off : *off+2]))
		*off += 2
		if major == majorSimple {
			h.floatLen = 2
		}
	case info == 26:
		if *off+4 > len(data) {
			return head{}, fmt.Errorf("%w: truncated 4-byte argument", ErrCodec)
		}
		h.arg = uint64(binary.BigEndian.Uint32(data[*off : *off+4]))
		*off += 4
		if major == majorSimple {
			h.floatLen = 4
		}
	case info == 27:
		if *off+8 > len(data) {
			return head{}, fmt.Errorf("%w: truncated 8-byte argument", ErrCodec)
		}
		h.arg = binary.BigEndian.Uint64(data[*off : *off+8])
		*off += 8
		if major == majorSimple {
			h.floatLen = 8
		}
	case info == 31:
		if major == majorByteStr || major == majorTextStr || major == majorArray || major == majorMap {
			h.indef = true
		} else if major == majorSimple {
			return head{}, fmt.Errorf("%w: break outside indefinite container", ErrCodec)
		}
	default:
		return head{}, fmt.Errorf("%w: reserved additional info %d", ErrCodec, info)
	}
	if major == majorSimple && !h.indef && h.floatLen == 0 {
		h.simple = true
	}
	return h, nil
}

// PeekIsBreak reports whether the byte at data[off] is the CBOR break
// stop-code, without advancing off.
func PeekIsBreak(data []byte, off int) bool {
	return off < len(data) && data[off] == breakByte
}

// ReadMapHeader reads a map header (definite or indefinite) at
// data[*off:], advancing past it. count is -1 when indefinite.
func ReadMapHeader(data []byte, off *int) (count int64, indefinite bool, err error) {
	start := *off
	h, err := readHead(data, off)
	if err != nil {
		return 0, false, err
	}
	if h.major != majorMap {
		*off = start
		return 0, false, fmt.Errorf("%w: expected map, got major type %d", ErrCodec, h.major)
	}
	if h.indef {
		return -1, true, nil
	}
	return int64(h.arg), false, nil
}

// ReadArrayHeader reads an array header (definite or indefinite) at
// data[*off:], advancing past it. count is -1 when indefinite.
func ReadArrayHeader(data []byte, off *int) (count int64, indefinite bool, err error) {
	start := *off
	h, err := readHead(data, off)
	if err != nil {
		return 0, false, err
	}
	if h.major != majorArray {
		*off = start
		return 0, false, fmt.Errorf("%w: expected array, got major type %d", ErrCodec, h.major)
	}
	if h.indef {
		return -1, true, nil
	}
	return int64(h.arg), false, nil
}

// ConsumeBreak consumes a break stop-code at data[*off], failing if it is
// not present.
func ConsumeBreak(data []byte, off *int) error {
	if !PeekIsBreak(data, *off) {
		return fmt.Errorf("%w: expected break stop-code", ErrCodec)
	}
	*off++
	return nil
}

// ReadKey reads a CBOR integer map key (major type 0 or 1) at data[*off:]
// and returns it as a signed value, advancing past it.
func ReadKey(data []byte, off *int) (int64, error) {
	start := *off
	h, err := readHead(data, off)
	if err != nil {
		return 0, err
	}
	switch h.major {
	case majorUnsigned:
		if h.arg > (1<<63 - 1) {
			*off = start
			return 0, fmt.Errorf("%w: map key overflows int64", ErrCodec)
		}
		return int64(h.arg), nil
	case majorNegative:
		if h.arg > (1<<63 - 1) {
			*off = start
			return 0, fmt.Errorf("%w: map key overflows int64", ErrCodec)
		}
		return -1 - int64(h.arg), nil
	default:
		*off = start
		return 0, fmt.Errorf("%w: map key is not an integer (major type %d)", ErrCodec, h.major)
	}
}

// SkipValue advances *off past one complete, arbitrarily nested CBOR item
// starting at data[*off], without interpreting its content, and returns
// the raw bytes it spanned. Used to slice out a value for delegation to
// fxamacker/cbor, and to capture extras payloads verbatim.
func SkipValue(data []byte, off *int) ([]byte, error) {
	start := *off
	if err := skip(data, off); err != nil {
		return nil, err
	}
	return data[start:*off], nil
}

func skip(data []byte, off *int) error {
	start := *off
	h, err := readHead(data, off)
	if err != nil {
		return err
	}
	switch h.major {
	case majorUnsigned, majorNegative:
		// argument already consumed by readHead
	case majorByteStr, majorTextStr:
		if h.indef {
			for {
				if PeekIsBreak(data, *off) {
					*off++
					break
				}
				chunkStart := *off
				ch, err := readHead(data, off)
				if err != nil {
					return err
				}
				if ch.major != h.major || ch.indef {
					return fmt.Errorf("%w: invalid indefinite string chunk", ErrCodec)
				}
				*off = chunkStart
				if err := skip(data, off); err != nil {
					return err
				}
			}
		} else {
			if *off+int(h.arg) > len(data) {
				return fmt.Errorf("%w: truncated string", ErrCodec)
			}
			*off += int(h.arg)
		}
	case majorArray:
		if h.indef {
			for !PeekIsBreak(data, *off) {
				if err := skip(data, off); err != nil {
					return err
				}
			}
			*off++
		} else {
			for i := uint64(0); i < h.arg; i++ {
				if err := skip(data, off); err != nil {
					return err
				}
			}
		}
	case majorMap:
		if h.indef {
			for !PeekIsBreak(data, *off) {
				if err := skip(data, off); err != nil {
					return err
				}
				if err := skip(data, off); err != nil {
					return err
				}
			}
			*off++
		} else {
			for i := uint64(0); i < h.arg; i++ {
				if err := skip(data, off); err != nil {
					return err
				}
				if err := skip(data, off); err != nil {
					return err
				}
			}
		}
	case majorTag:
		return skip(data, off)
	case majorSimple:
		// immediate/float bytes already consumed by readHead
	default:
		*off = start
		return fmt.Errorf("%w: unknown major type %d", ErrCodec, h.major)
	}
	return nil
}

func writeHead(buf []byte, major byte, n uint64) []byte {
	m := major << 5
	switch {
	case n < 24:
		return append(buf, m|byte(n))
	case n <= 0xff:
		return append(buf, m|24, byte(n))
	case n <= 0xffff:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		buf = append(buf, m|25)
		return append(buf, b[:]...)
	case n <= 0xffffffff:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		buf = append(buf, m|26)
		return append(buf, b[:]...)
	default:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], n)
		buf = append(buf, m|27)
		return append(buf, b[:]...)
	}
}

// AppendMapHeader appends a definite-length map header for count entries.
func AppendMapHeader(buf []byte, count int) []byte {
	return writeHead(buf, majorMap, uint64(count))
}

// AppendIndefiniteMapHeader appends an indefinite-length map opening byte.
func AppendIndefiniteMapHeader(buf []byte) []byte {
	return append(buf, majorMap<<5|31)
}

// AppendArrayHeader appends a definite-length array header for count
// entries.
func AppendArrayHeader(buf []byte, count int) []byte {
	return writeHead(buf, majorArray, uint64(count))
}

// AppendBreak appends the break stop-code.
func AppendBreak(buf []byte) []byte {
	return append(buf, breakByte)
}

// AppendKey appends a CBOR integer map key for a signed index: a
// non-negative key encodes as an unsigned integer (major 0); a negative
// key encodes as a negative integer (major 1, biased per RFC 7049 §2.1).
func AppendKey(buf []byte, key int64) []byte {
	if key >= 0 {
		return writeHead(buf, majorUnsigned, uint64(key))
	}
	return writeHead(buf, majorNegative, uint64(-1-key))
}
