package cbor

import "math"

// DecodeMode selects how strictly the Decoder treats map labels and
// indefinite-length items. Modes combine with |.
type DecodeMode uint8

const (
	// DecodeNormal accepts text, byte string and integer map labels.
	DecodeNormal DecodeMode = 0
	// DecodeMapStringsOnly accepts only text map labels.
	DecodeMapStringsOnly DecodeMode = 1
	// DecodeMapAsArray reports maps as TypeMapAsArray with 2N items and
	// does not pair labels with values.
	DecodeMapAsArray DecodeMode = 2
	// DecodeNoIndefinite rejects indefinite-length strings and containers.
	DecodeNoIndefinite DecodeMode = 4
	// DecodeWellFormed reports items as they are encoded, for checking
	// well-formedness and rendering: it implies DecodeMapAsArray, tags are
	// recorded but never relabel an item, and negative integers below
	// math.MinInt64 come back as Type65BitNegInt instead of failing with
	// ErrIntOverflow.
	DecodeWellFormed DecodeMode = 8
)

// ValidateUTF8OnDecode controls whether text strings are checked for
// valid UTF-8 while decoding.
var ValidateUTF8OnDecode = true

// Decoder is the decode context. GetNext returns the input one item at a
// time in document order; arrays and maps are reported by their header
// and their contents follow as further items.
//
// Strings are returned pointing into the input unless they had to be
// assembled from indefinite-length chunks, or the allocator was set up
// with allStrings. Errors are sticky as for the Encoder. A Decoder is not
// safe for concurrent use.
type Decoder struct {
	in      InBuf
	mode    DecodeMode
	nesting decodeNesting

	alloc       Allocator
	pool        MemPool
	allocateAll bool

	tags *TagList
	err  error
}

// NewDecoder returns a Decoder over b. String allocation is disabled
// until SetMemPool or SetAllocator is called.
func NewDecoder(b []byte, mode DecodeMode) *Decoder {
	d := &Decoder{}
	d.Init(b, mode)
	return d
}

// Init resets d to decode b. The allocator and tag list are kept.
func (d *Decoder) Init(b []byte, mode DecodeMode) {
	d.in.Init(b)
	if mode&DecodeWellFormed != 0 {
		mode |= DecodeMapAsArray
	}
	d.mode = mode
	d.nesting.init()
	d.err = nil
	if d.alloc == nil {
		d.alloc = NoAllocator
	}
}

// SetMemPool makes the Decoder assemble strings in pool. With allStrings
// every string, labels included, is copied into the pool.
func (d *Decoder) SetMemPool(pool []byte, allStrings bool) error {
	if err := d.pool.Init(pool); err != nil {
		return err
	}
	d.alloc = &d.pool
	d.allocateAll = allStrings
	return nil
}

// SetAllocator installs a caller allocator. A nil a disables allocation.
func (d *Decoder) SetAllocator(a Allocator, allStrings bool) {
	if a == nil {
		a = NoAllocator
	}
	d.alloc = a
	d.allocateAll = allStrings
}

// SetCallerConfiguredTagList sets the tags reported through Item.TagBits
// in addition to the built-in ones. The list is not copied.
func (d *Decoder) SetCallerConfiguredTagList(l *TagList) { d.tags = l }

// Err returns the sticky error, if any.
func (d *Decoder) Err() error { return d.err }

// Depth returns how many containers are open.
func (d *Decoder) Depth() int { return d.nesting.depth() }

// Tell returns the input offset of the next unread byte.
func (d *Decoder) Tell() int { return d.in.Tell() }

// PoolUsed returns how many bytes of the pool set by SetMemPool are
// claimed.
func (d *Decoder) PoolUsed() int { return d.pool.FreeOffset() }

func (d *Decoder) fail(err error) error {
	if d.err == nil {
		d.err = err
		logSticky("decode", err, d.in.Tell(), d.nesting.depth())
	}
	return d.err
}

// Finish checks that the input was consumed exactly: every container
// closed and no bytes left over.
func (d *Decoder) Finish() error {
	if d.err != nil && d.err != ErrNoMoreItems {
		return d.err
	}
	if d.nesting.isNested() {
		if d.in.BytesUnconsumed() == 0 {
			return d.fail(ErrUnexpectedEnd)
		}
		return d.fail(ErrArrayOrMapStillOpen)
	}
	if d.in.BytesUnconsumed() > 0 {
		return d.fail(ErrExtraBytes)
	}
	return nil
}

// GetNext decodes the next item. Inside a map the label is decoded with
// the value and returned in the Label fields. At the end of a complete
// input it returns ErrNoMoreItems.
func (d *Decoder) GetNext() (Item, error) {
	if d.err != nil {
		return Item{}, d.err
	}
	var it Item
	if err := d.next(&it); err != nil {
		return Item{}, d.fail(err)
	}
	return it, nil
}

func (d *Decoder) next(it *Item) error {
	if !d.nesting.isNested() && d.in.BytesUnconsumed() == 0 {
		return ErrNoMoreItems
	}
	it.NestingLevel = uint8(d.nesting.depth())

	if d.mode&DecodeMapAsArray == 0 && d.nesting.isInside(majorTypeMap) {
		if err := d.readLabel(it); err != nil {
			return err
		}
		d.nesting.consumeOne()
	}

	h, err := d.readTaggedItem(it, d.mode&DecodeWellFormed == 0)
	if err != nil {
		return err
	}
	switch it.Type {
	case typeBreak:
		return ErrUnexpectedBreak
	case TypeArray, TypeMap:
		if err := d.openContainer(it, h); err != nil {
			return err
		}
	default:
		d.nesting.consumeOne()
	}

	if err := d.consumeBreaks(); err != nil {
		return err
	}
	it.NextNestLevel = uint8(d.nesting.depth())
	return nil
}

// readLabel decodes a map label into the Label fields of it. Tags on a
// label are read but not kept, and never relabel it.
func (d *Decoder) readLabel(it *Item) error {
	var l Item
	if _, err := d.readTaggedItem(&l, false); err != nil {
		return err
	}
	switch l.Type {
	case TypeTextString:
	case TypeByteString, TypeInt64, TypeUint64:
		if d.mode&DecodeMapStringsOnly != 0 {
			return ErrMapLabelType
		}
	case typeBreak:
		return ErrUnexpectedBreak
	default:
		return ErrMapLabelType
	}
	it.LabelType = l.Type
	it.LabelInt = l.Int
	it.LabelUint = l.Uint
	it.LabelBytes = l.Bytes
	it.LabelAllocated = l.Allocated
	return nil
}

func (d *Decoder) openContainer(it *Item, h head) error {
	asArray := h.major == majorTypeMap && d.mode&DecodeMapAsArray != 0
	if asArray {
		it.Type = TypeMapAsArray
	}
	if h.indefinite() {
		if d.mode&DecodeNoIndefinite != 0 {
			return ErrIndefiniteForbidden
		}
		it.Count = CountIndefinite
		return d.nesting.open(h.major, 0, true)
	}
	if h.arg > MaxItemsInContainer {
		return ErrArrayOrMapTooLong
	}
	n := h.arg
	if h.major == majorTypeMap {
		n *= 2
	}
	if n > MaxItemsInContainer {
		return ErrArrayOrMapTooLong
	}
	if asArray || h.major == majorTypeArray {
		it.Count = uint16(n)
	} else {
		it.Count = uint16(h.arg)
	}
	return d.nesting.open(h.major, n, false)
}

// consumeBreaks closes every indefinite container whose break comes next,
// so NextNestLevel is accurate when the item is returned.
func (d *Decoder) consumeBreaks() error {
	for d.nesting.isIndefinite() {
		b, ok := d.in.PeekByte()
		if !ok || b != breakByte {
			return nil
		}
		d.in.Seek(d.in.Tell() + 1)
		if err := d.nesting.closeIndefinite(); err != nil {
			return err
		}
	}
	return nil
}

// readTaggedItem decodes an item and the tags in front of it. With
// relabelTags the innermost tag may change the item's type.
func (d *Decoder) readTaggedItem(it *Item, relabelTags bool) (head, error) {
	for {
		h, err := d.readItem(it)
		if err != nil {
			return h, err
		}
		if it.Type != typeTag {
			if relabelTags && it.numTags > 0 {
				err = relabel(it, it.tags[it.numTags-1])
			}
			return h, err
		}
		if it.numTags >= MaxTagsPerItem {
			return h, ErrTooManyTags
		}
		tag := it.Uint
		it.tags[it.numTags] = tag
		it.numTags++
		if bit, ok := d.tags.Bit(tag); ok {
			it.TagBits |= bit
		}
		it.Type, it.Uint = TypeNone, 0
	}
}

// relabel applies the date and bignum tags to their content.
func relabel(it *Item, tag uint64) error {
	switch tag {
	case TagDateTimeString:
		if it.Type != TypeTextString {
			return ErrBadTagContent
		}
		it.Type = TypeDateString
	case TagEpochDateTime:
		switch it.Type {
		case TypeInt64:
		case TypeFloat, TypeDouble:
			f := it.Float
			if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
				return ErrBadTagContent
			}
			sec := math.Floor(f)
			it.Int, it.Float = int64(sec), f-sec
		default:
			return ErrBadTagContent
		}
		it.Type = TypeDateEpoch
	case TagPosBignum, TagNegBignum:
		if it.Type != TypeByteString {
			return ErrBadTagContent
		}
		if tag == TagPosBignum {
			it.Type = TypePosBignum
		} else {
			it.Type = TypeNegBignum
		}
	}
	return nil
}

// readItem decodes one head and, for strings, the content. A tag comes
// back as typeTag with its number in Uint and a break as typeBreak.
func (d *Decoder) readItem(it *Item) (head, error) {
	h, err := d.in.readHead()
	if err != nil {
		return h, err
	}
	switch h.major {
	case majorTypeUint:
		if h.arg > math.MaxInt64 {
			it.Type, it.Uint = TypeUint64, h.arg
		} else {
			it.Type, it.Int = TypeInt64, int64(h.arg)
		}
	case majorTypeNegInt:
		if h.arg > math.MaxInt64 {
			if d.mode&DecodeWellFormed == 0 {
				return h, ErrIntOverflow
			}
			it.Type, it.Uint = Type65BitNegInt, h.arg
			break
		}
		it.Type, it.Int = TypeInt64, -1-int64(h.arg)
	case majorTypeBytes, majorTypeText:
		err = d.readString(it, h)
	case majorTypeArray:
		it.Type = TypeArray
	case majorTypeMap:
		it.Type = TypeMap
	case majorTypeTag:
		it.Type, it.Uint = typeTag, h.arg
	case majorTypeSimple:
		err = readSimple(it, h)
	}
	return h, err
}

func readSimple(it *Item, h head) error {
	switch h.addInfo {
	case simpleFalse:
		it.Type = TypeFalse
	case simpleTrue:
		it.Type = TypeTrue
	case simpleNull:
		it.Type = TypeNull
	case simpleUndefined:
		it.Type = TypeUndef
	case addInfoUint8:
		// two-byte encodings of the values below 32 are not well-formed
		if h.arg < 32 {
			return ErrUnsupported
		}
		it.Type, it.Simple = TypeSimple, uint8(h.arg)
	case simpleFloat16:
		it.Type = TypeDouble
		it.Float = float64(float16BitsToFloat32(uint16(h.arg)))
	case simpleFloat32:
		it.Type = TypeFloat
		it.Float = float64(math.Float32frombits(uint32(h.arg)))
	case simpleFloat64:
		it.Type = TypeDouble
		it.Float = math.Float64frombits(h.arg)
	case simpleBreak:
		it.Type = typeBreak
	default:
		it.Type, it.Simple = TypeSimple, h.addInfo
	}
	return nil
}

func (d *Decoder) readString(it *Item, h head) error {
	it.Type = TypeByteString
	if h.major == majorTypeText {
		it.Type = TypeTextString
	}
	if h.indefinite() {
		return d.readIndefiniteString(it, h.major)
	}
	b, err := d.in.Consume(h.arg)
	if err != nil {
		return err
	}
	if err := checkText(h.major, b); err != nil {
		return err
	}
	if d.allocateAll {
		c, err := d.alloc.Realloc(nil, len(b))
		if err != nil {
			return err
		}
		copy(c, b)
		b = c
		it.Allocated = true
	}
	it.Bytes = b
	return nil
}

// readIndefiniteString concatenates the chunks of an indefinite-length
// string in allocator memory. Each chunk must be a definite string of the
// same major type.
func (d *Decoder) readIndefiniteString(it *Item, major uint8) error {
	if d.mode&DecodeNoIndefinite != 0 {
		return ErrIndefiniteForbidden
	}
	if _, off := d.alloc.(disabledAllocator); off {
		return ErrAllocationDisabled
	}
	var full []byte
	for {
		h, err := d.in.readHead()
		if err == nil && h.major == majorTypeSimple && h.addInfo == simpleBreak {
			break
		}
		if err == nil && (h.major != major || h.indefinite()) {
			err = ErrIndefiniteChunk
		}
		var chunk []byte
		if err == nil {
			chunk, err = d.in.Consume(h.arg)
		}
		if err == nil && len(chunk) > 0 {
			var grown []byte
			grown, err = d.alloc.Realloc(full, len(full)+len(chunk))
			if err == nil {
				copy(grown[len(full):], chunk)
				full = grown
			}
		}
		if err != nil {
			if full != nil {
				_, _ = d.alloc.Realloc(full, 0)
			}
			return err
		}
	}
	if err := checkText(major, full); err != nil {
		if full != nil {
			_, _ = d.alloc.Realloc(full, 0)
		}
		return err
	}
	it.Bytes = full
	it.Allocated = true
	return nil
}
