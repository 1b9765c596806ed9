package cbor

// builtinTags are the tags with a fixed bit in Item.TagBits; the bit is
// the index in this table.
var builtinTags = [...]uint64{
	TagDateTimeString,
	TagEpochDateTime,
	TagPosBignum,
	TagNegBignum,
	TagDecimalFrac,
	TagBigfloat,
	TagBase64URL,
	TagBase64,
	TagBase16,
	TagCBOR,
	TagURI,
	TagBase64URLString,
	TagBase64String,
	TagRegexp,
	TagMIME,
	TagSelfDescribeCBOR,
}

// callerTagBitBase is the first TagBits bit used for caller tags.
const callerTagBitBase = 64 - MaxCallerTags

// TagList is a caller-configured list of tag numbers the Decoder should
// recognize beyond the built-in ones. The Decoder only reads it.
type TagList struct {
	tags [MaxCallerTags]uint64
	n    int
}

// NewTagList builds a TagList. More than MaxCallerTags tags is
// ErrTooManyTags.
func NewTagList(tags ...uint64) (*TagList, error) {
	if len(tags) > MaxCallerTags {
		return nil, ErrTooManyTags
	}
	l := &TagList{n: len(tags)}
	copy(l.tags[:], tags)
	return l, nil
}

// Len returns the number of tags in the list.
func (l *TagList) Len() int {
	if l == nil {
		return 0
	}
	return l.n
}

// Tags returns the configured tag numbers.
func (l *TagList) Tags() []uint64 {
	if l == nil {
		return nil
	}
	return l.tags[:l.n]
}

// Bit returns the Item.TagBits bit for tag, checking the built-in table
// and then the list. A nil list only knows the built-in tags.
func (l *TagList) Bit(tag uint64) (uint64, bool) {
	for i, t := range builtinTags {
		if t == tag {
			return 1 << uint(i), true
		}
	}
	for i, t := range l.Tags() {
		if t == tag {
			return 1 << uint(callerTagBitBase+i), true
		}
	}
	return 0, false
}
