package cbor

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
)

// ToJSONBytes converts the next CBOR item into JSON and returns the JSON
// bytes and the remainder of b. It is the inverse of FromJSONBytes for
// inputs that came from JSON:
//
//   - byte strings and bignums become standard base64 strings
//   - non-text map labels are rendered as JSON strings
//   - tags are dropped and their content is converted on its own
//   - undefined, NaN and infinities become null
//
// Like DiagBytes it walks the item with a Decoder and does not recurse.
func ToJSONBytes(b []byte) ([]byte, []byte, error) {
	buf := GetOutBuf()
	defer PutOutBuf(buf)

	d := NewDecoder(b, DecodeNormal)
	d.SetAllocator(HeapAllocator{}, false)

	var levels [MaxNesting + 1]diagLevel
	for {
		it, err := d.GetNext()
		if err != nil {
			return nil, b, err
		}
		lvl := int(it.NestingLevel)
		if lvl > 0 {
			l := &levels[lvl]
			if l.items > 0 {
				buf.WriteByte(',')
			}
			l.items++
			if l.isMap {
				jsonLabel(buf, &it)
				buf.WriteByte(':')
			}
		}

		depth := lvl
		switch it.Type {
		case TypeArray:
			buf.WriteByte('[')
			depth++
			levels[depth] = diagLevel{}
		case TypeMap:
			buf.WriteByte('{')
			depth++
			levels[depth] = diagLevel{isMap: true}
		default:
			jsonScalar(buf, &it)
		}

		for ; depth > int(it.NextNestLevel); depth-- {
			if levels[depth].isMap {
				buf.WriteByte('}')
			} else {
				buf.WriteByte(']')
			}
		}
		if it.NextNestLevel == 0 {
			break
		}
	}
	out := make([]byte, buf.Pos())
	copy(out, buf.Bytes())
	return out, b[d.Tell():], nil
}

func jsonString(buf *OutBuf, s string) {
	js, _ := json.Marshal(s)
	buf.Write(js)
}

func jsonBase64(buf *OutBuf, p []byte) {
	buf.WriteByte('"')
	dst, _ := buf.Extend(base64.StdEncoding.EncodedLen(len(p)))
	base64.StdEncoding.Encode(dst, p)
	buf.WriteByte('"')
}

func jsonLabel(buf *OutBuf, it *Item) {
	switch it.LabelType {
	case TypeTextString:
		jsonString(buf, string(it.LabelBytes))
	case TypeByteString:
		jsonBase64(buf, it.LabelBytes)
	case TypeInt64:
		jsonString(buf, strconv.FormatInt(it.LabelInt, 10))
	case TypeUint64:
		jsonString(buf, strconv.FormatUint(it.LabelUint, 10))
	}
}

func jsonScalar(buf *OutBuf, it *Item) {
	switch it.Type {
	case TypeInt64:
		buf.WriteString(strconv.FormatInt(it.Int, 10))
	case TypeUint64:
		buf.WriteString(strconv.FormatUint(it.Uint, 10))
	case TypeByteString, TypePosBignum, TypeNegBignum:
		jsonBase64(buf, it.Bytes)
	case TypeTextString, TypeDateString:
		jsonString(buf, string(it.Bytes))
	case TypeDateEpoch:
		if it.Float == 0 {
			buf.WriteString(strconv.FormatInt(it.Int, 10))
		} else {
			jsonFloat(buf, float64(it.Int)+it.Float, 64)
		}
	case TypeFloat:
		jsonFloat(buf, it.Float, 32)
	case TypeDouble:
		jsonFloat(buf, it.Float, 64)
	case TypeTrue:
		buf.WriteString("true")
	case TypeFalse:
		buf.WriteString("false")
	case TypeSimple:
		buf.WriteString(strconv.Itoa(int(it.Simple)))
	default:
		buf.WriteString("null")
	}
}

func jsonFloat(buf *OutBuf, f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
}
