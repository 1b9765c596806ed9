package cbor

import "math"

// DataType identifies what a decoded Item holds.
type DataType uint8

// Item data types
const (
	TypeNone       DataType = iota
	TypeArray               // Count holds the item count
	TypeMap                 // Count holds the pair count
	TypeMapAsArray          // a map surfaced as an array; Count holds 2*pairs
	TypeInt64               // Int
	TypeUint64              // Uint; only for values above math.MaxInt64
	Type65BitNegInt         // Uint holds n of the value -1-n; DecodeWellFormed only
	TypeByteString          // Bytes
	TypeTextString          // Bytes, valid UTF-8
	TypePosBignum           // tag 2 content, Bytes
	TypeNegBignum           // tag 3 content, Bytes
	TypeDateString          // tag 0 content, Bytes
	TypeDateEpoch           // tag 1 content, Int seconds plus Float fraction
	TypeFloat               // single precision, widened into Float
	TypeDouble              // half or double precision, in Float
	TypeTrue
	TypeFalse
	TypeNull
	TypeUndef
	TypeSimple // other simple values, Simple

	// internal types never returned by GetNext
	typeTag
	typeBreak
)

// CountIndefinite is the Count of an indefinite-length array or map.
const CountIndefinite = math.MaxUint16

// String implements fmt.Stringer
func (t DataType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	case TypeMapAsArray:
		return "map-as-array"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case Type65BitNegInt:
		return "negint65"
	case TypeByteString:
		return "bytes"
	case TypeTextString:
		return "text"
	case TypePosBignum:
		return "posbignum"
	case TypeNegBignum:
		return "negbignum"
	case TypeDateString:
		return "datestring"
	case TypeDateEpoch:
		return "dateepoch"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeTrue:
		return "true"
	case TypeFalse:
		return "false"
	case TypeNull:
		return "null"
	case TypeUndef:
		return "undefined"
	case TypeSimple:
		return "simple"
	default:
		return "<invalid>"
	}
}

func (t DataType) isContainer() bool {
	return t == TypeArray || t == TypeMap || t == TypeMapAsArray
}

func (t DataType) isString() bool {
	return t == TypeByteString || t == TypeTextString
}

// Item is one decoded data item. Byte and text strings point into the
// input, or into allocator memory when Allocated is set.
type Item struct {
	Type      DataType
	LabelType DataType // TypeNone unless the item is a map value

	// NestingLevel is the depth the item sits at; NextNestLevel is the
	// depth the next item will sit at. A drop from one to the other means
	// containers were closed by this item.
	NestingLevel  uint8
	NextNestLevel uint8

	Allocated      bool // Bytes lives in allocator memory
	LabelAllocated bool // LabelBytes lives in allocator memory

	Int    int64
	Uint   uint64
	Float  float64
	Bytes  []byte
	Count  uint16 // arrays and maps; CountIndefinite if not declared
	Simple uint8

	LabelInt   int64
	LabelUint  uint64
	LabelBytes []byte

	// TagBits has one bit per recognized tag: built-in tags first, then
	// the caller-configured list. See TagList.Bit.
	TagBits uint64

	tags    [MaxTagsPerItem]uint64
	numTags uint8
}

// Tags returns the tag numbers on the item, outermost first.
func (it *Item) Tags() []uint64 { return it.tags[:it.numTags] }

// IsTagged reports whether tag was applied to the item.
func (it *Item) IsTagged(tag uint64) bool {
	for _, t := range it.tags[:it.numTags] {
		if t == tag {
			return true
		}
	}
	return false
}

// Indefinite reports whether an array or map was encoded with
// indefinite length.
func (it *Item) Indefinite() bool {
	return it.Type.isContainer() && it.Count == CountIndefinite
}
