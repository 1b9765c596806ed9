// This package is the structural core of a CBOR encoder and decoder.
//
// It tracks array and map nesting while encoding and decoding, bounds the
// nesting depth without recursion, rejects hostile sizes before they can
// overflow the bookkeeping counters, and assembles indefinite-length strings
// through a pluggable Allocator.
//
// The two entry points are the encode and decode contexts:
//
//	e := cbor.NewEncoder(buf)
//	e.OpenMap()
//	e.AddString("a")
//	e.AddInt64(1)
//	e.CloseMap()
//	out, err := e.Finish()
//
// and
//
//	d := cbor.NewDecoder(out, cbor.DecodeNormal)
//	for {
//		item, err := d.GetNext()
//		...
//	}
//	err = d.Finish()
//
// Both contexts keep a single sticky error: the first failure is recorded
// and every later structural call returns it unchanged, so a caller may
// issue many calls and check the error once.
package cbor

// CBOR major types (3 bits)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Internal container kinds. They never appear on the wire; the nesting
// trackers use them so a definite close cannot end an indefinite or
// wrapped container.
const (
	majorNoneArrayIndefinite = 12
	majorNoneMapIndefinite   = 13
	majorNoneBstrWrap        = 14
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// Common CBOR semantic tags
const (
	TagDateTimeString   = 0     // RFC3339 date/time string
	TagEpochDateTime    = 1     // Unix timestamp (int or float)
	TagPosBignum        = 2     // Positive bignum
	TagNegBignum        = 3     // Negative bignum
	TagDecimalFrac      = 4     // Decimal fraction
	TagBigfloat         = 5     // Bigfloat
	TagBase64URL        = 21    // Expected base64url encoding
	TagBase64           = 22    // Expected base64 encoding
	TagBase16           = 23    // Expected base16 encoding
	TagCBOR             = 24    // Embedded CBOR data item
	TagURI              = 32    // URI
	TagBase64URLString  = 33    // base64url
	TagBase64String     = 34    // base64
	TagRegexp           = 35    // Regular expression
	TagMIME             = 36    // MIME message
	TagSelfDescribeCBOR = 55799 // Self-describe CBOR (0xd9d9f7)
)

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

var breakByte = makeByte(majorTypeSimple, simpleBreak)
