package cbor

import (
	"encoding/binary"
	"math"
)

var be = binary.BigEndian

// ensure 'sz' extra bytes in 'b' btw len(b) and cap(b)
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, (2*c)+sz) // exponential growth
		n := copy(o, b)
		return o[:n+sz], n
	}
	return b[:l+sz], l
}

// appendHead encodes an item head with the given major type and argument
// in its shortest form.
func appendHead(b []byte, majorType uint8, u uint64) []byte {
	switch {
	case u <= addInfoDirect:
		return append(b, makeByte(majorType, uint8(u)))
	case u <= math.MaxUint8:
		o, n := ensure(b, 2)
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(u)
		return o
	case u <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = makeByte(majorType, addInfoUint16)
		be.PutUint16(o[n+1:], uint16(u))
		return o
	case u <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = makeByte(majorType, addInfoUint32)
		be.PutUint32(o[n+1:], uint32(u))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = makeByte(majorType, addInfoUint64)
		be.PutUint64(o[n+1:], u)
		return o
	}
}

// head is a decoded item head.
type head struct {
	major   uint8
	addInfo uint8
	arg     uint64 // argument; zero for indefinite lengths and break
	size    int    // bytes the head occupies
}

func (h head) indefinite() bool { return h.addInfo == addInfoIndefinite }

// readHead decodes the item head at the start of b. Short input is
// reported as ErrUnexpectedEnd and reserved additional info as
// ErrUnsupported.
func readHead(b []byte) (head, error) {
	if len(b) < 1 {
		return head{}, ErrUnexpectedEnd
	}
	h := head{major: getMajorType(b[0]), addInfo: getAddInfo(b[0]), size: 1}
	switch {
	case h.addInfo <= addInfoDirect:
		h.arg = uint64(h.addInfo)
	case h.addInfo == addInfoUint8:
		if len(b) < 2 {
			return h, ErrUnexpectedEnd
		}
		h.arg, h.size = uint64(b[1]), 2
	case h.addInfo == addInfoUint16:
		if len(b) < 3 {
			return h, ErrUnexpectedEnd
		}
		h.arg, h.size = uint64(be.Uint16(b[1:])), 3
	case h.addInfo == addInfoUint32:
		if len(b) < 5 {
			return h, ErrUnexpectedEnd
		}
		h.arg, h.size = uint64(be.Uint32(b[1:])), 5
	case h.addInfo == addInfoUint64:
		if len(b) < 9 {
			return h, ErrUnexpectedEnd
		}
		h.arg, h.size = be.Uint64(b[1:]), 9
	case h.addInfo == addInfoIndefinite:
		switch h.major {
		case majorTypeUint, majorTypeNegInt, majorTypeTag:
			return h, ErrUnsupported
		}
	default:
		// 28, 29, 30 are reserved
		return h, ErrUnsupported
	}
	return h, nil
}

// appendFloat64 appends a double-precision float item.
func appendFloat64(b []byte, f float64) []byte {
	o, n := ensure(b, 9)
	o[n] = makeByte(majorTypeSimple, simpleFloat64)
	be.PutUint64(o[n+1:], math.Float64bits(f))
	return o
}

// appendFloat32 appends a single-precision float item.
func appendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, 5)
	o[n] = makeByte(majorTypeSimple, simpleFloat32)
	be.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// float16BitsToFloat32 converts IEEE 754 binary16 bits to float32
func float16BitsToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := (h >> 10) & 0x1F
	mant := uint32(h & 0x03FF)
	var bits uint32
	switch exp {
	case 0:
		if mant == 0 {
			bits = sign << 31
		} else {
			// subnormal: value = mant * 2^-24
			f := math.Ldexp(float64(mant), -24)
			if sign != 0 {
				f = -f
			}
			return float32(f)
		}
	case 0x1F:
		// Inf/NaN
		bits = (sign << 31) | (0xFF << 23)
		if mant != 0 {
			bits |= (mant << 13)
		}
	default:
		e32 := int(exp) - 15 + 127
		bits = (sign << 31) | (uint32(e32) << 23) | (mant << 13)
	}
	return math.Float32frombits(bits)
}
