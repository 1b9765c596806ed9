package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
)

// diagLevel is the rendering state of one open array or map.
type diagLevel struct {
	items uint32
	tags  uint8
	isMap bool
}

// DiagBytes renders the next CBOR item in RFC 8949 diagnostic notation
// and returns the remaining bytes.
//
// Rendering walks the item with a DecodeWellFormed Decoder, so anything
// ValidateWellFormedBytes accepts can be shown, nesting is bounded by
// MaxNesting and nothing recurses. Map labels are paired with their values
// here. Indefinite-length strings are shown joined rather than chunk by
// chunk.
func DiagBytes(b []byte) (string, []byte, error) {
	buf := GetOutBuf()
	defer PutOutBuf(buf)

	d := NewDecoder(b, DecodeWellFormed)
	d.SetAllocator(HeapAllocator{}, false)

	var levels [MaxNesting + 1]diagLevel
	for {
		it, err := d.GetNext()
		if err != nil {
			return "", b, err
		}
		lvl := int(it.NestingLevel)
		if lvl > 0 {
			l := &levels[lvl]
			switch {
			case l.items == 0:
			case l.isMap && l.items%2 == 1:
				buf.WriteString(": ")
			default:
				buf.WriteString(", ")
			}
			l.items++
		}
		for _, tag := range it.Tags() {
			buf.WriteString(strconv.FormatUint(tag, 10))
			buf.WriteByte('(')
		}

		depth := lvl
		if it.Type.isContainer() {
			isMap := it.Type == TypeMapAsArray
			open := "["
			if isMap {
				open = "{"
			}
			if it.Indefinite() {
				open += "_ "
			}
			buf.WriteString(open)
			depth++
			levels[depth] = diagLevel{tags: uint8(len(it.Tags())), isMap: isMap}
		} else {
			diagScalar(buf, &it)
			closeTags(buf, len(it.Tags()))
		}

		for ; depth > int(it.NextNestLevel); depth-- {
			if levels[depth].isMap {
				buf.WriteByte('}')
			} else {
				buf.WriteByte(']')
			}
			closeTags(buf, int(levels[depth].tags))
		}
		if it.NextNestLevel == 0 {
			break
		}
	}
	return string(buf.Bytes()), b[d.Tell():], nil
}

// DiagDocument renders every top-level item of b, one per line.
func DiagDocument(b []byte) (string, error) {
	var out []byte
	for off := 0; off < len(b); {
		s, rest, err := DiagBytes(b[off:])
		if err != nil {
			return string(out), WrapError(err, "offset", off)
		}
		out = append(out, s...)
		out = append(out, '\n')
		off = len(b) - len(rest)
	}
	return string(out), nil
}

func closeTags(buf *OutBuf, n int) {
	for ; n > 0; n-- {
		buf.WriteByte(')')
	}
}

func diagHex(buf *OutBuf, p []byte) {
	buf.WriteString("h'")
	dst, _ := buf.Extend(hex.EncodedLen(len(p)))
	hex.Encode(dst, p)
	buf.WriteByte('\'')
}

func diagScalar(buf *OutBuf, it *Item) {
	switch it.Type {
	case TypeInt64:
		buf.WriteString(strconv.FormatInt(it.Int, 10))
	case TypeUint64:
		buf.WriteString(strconv.FormatUint(it.Uint, 10))
	case Type65BitNegInt:
		buf.WriteString(formatNegInt65(it.Uint))
	case TypeByteString:
		diagHex(buf, it.Bytes)
	case TypeTextString:
		buf.WriteString(strconv.Quote(string(it.Bytes)))
	case TypeFloat:
		buf.WriteString(formatFloat32Diag(float32(it.Float)))
	case TypeDouble:
		buf.WriteString(formatFloat64Diag(it.Float))
	case TypeTrue:
		buf.WriteString("true")
	case TypeFalse:
		buf.WriteString("false")
	case TypeNull:
		buf.WriteString("null")
	case TypeUndef:
		buf.WriteString("undefined")
	case TypeSimple:
		buf.WriteString("simple(")
		buf.WriteString(strconv.Itoa(int(it.Simple)))
		buf.WriteByte(')')
	}
}

// formatNegInt65 formats -1-n for an argument too large for int64.
func formatNegInt65(n uint64) string {
	if n == math.MaxUint64 {
		return "-18446744073709551616"
	}
	return "-" + strconv.FormatUint(n+1, 10)
}

// formatFloat64Diag returns a diagnostic string for float64 matching RFC examples
func formatFloat64Diag(f float64) string {
	if math.IsInf(f, +1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	af := math.Abs(f)
	if af == 0 || (af >= 1e-6 && af < 1e15) {
		return trimTrailingZerosDot(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatFloat32Diag is formatFloat64Diag at single precision.
func formatFloat32Diag(f float32) string {
	f64 := float64(f)
	if math.IsInf(f64, 0) || math.IsNaN(f64) {
		return formatFloat64Diag(f64)
	}
	af := math.Abs(f64)
	if af == 0 || (af >= 1e-6 && af < 1e15) {
		return trimTrailingZerosDot(strconv.FormatFloat(f64, 'f', -1, 32))
	}
	return strconv.FormatFloat(f64, 'g', -1, 32)
}

func trimTrailingZerosDot(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			j := len(s)
			for j > i && s[j-1] == '0' {
				j--
			}
			if j == i+1 {
				j = i
			}
			return s[:j]
		}
	}
	return s
}
