package cbor

// Encoder is the encode context. It writes items into an OutBuf and tracks
// open arrays, maps and wrapped byte strings so their headers can be
// filled in when they close.
//
// Errors are sticky. The first failure is kept, later calls do nothing and
// return it, and Finish reports it. An Encoder is not safe for concurrent
// use.
type Encoder struct {
	out     OutBuf
	err     error
	nesting encodeNesting

	tagPending bool // a tag is waiting for its content item
}

// NewEncoder returns an Encoder writing into buf. Output never grows past
// cap(buf); a nil buf gives an Encoder whose output grows as needed.
//
// A definite array or map reserves a 3-byte header while it is open and
// shrinks it on close, so a fixed buf needs up to 2 spare bytes for every
// container open at once beyond the size of the final output.
func NewEncoder(buf []byte) *Encoder {
	e := &Encoder{}
	e.Init(buf)
	return e
}

// Init resets e to write into buf, as NewEncoder does.
func (e *Encoder) Init(buf []byte) {
	e.out.Init(buf)
	e.err = nil
	e.nesting.init()
	e.tagPending = false
}

// Err returns the sticky error, if any.
func (e *Encoder) Err() error { return e.err }

// Depth returns how many containers are open.
func (e *Encoder) Depth() int { return e.nesting.depth() }

// Pos returns the number of bytes written so far.
func (e *Encoder) Pos() int { return e.out.Pos() }

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
		logSticky("encode", err, e.out.Pos(), e.nesting.depth())
	}
	return e.err
}

// Finish returns the encoded bytes. It fails with the sticky error, or
// with ErrArrayOrMapStillOpen if containers were left open.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.tagPending {
		return nil, e.fail(ErrTagWithoutContent)
	}
	if e.nesting.isNested() {
		return nil, e.fail(ErrArrayOrMapStillOpen)
	}
	return e.out.Bytes(), nil
}

// OpenArray starts a definite-length array. Items added until CloseArray
// are its elements.
func (e *Encoder) OpenArray() error { return e.open(majorTypeArray, containerHeaderSize) }

// OpenMap starts a definite-length map. Add a label and a value for each
// entry, then call CloseMap.
func (e *Encoder) OpenMap() error { return e.open(majorTypeMap, containerHeaderSize) }

// OpenArrayIndefinite starts an indefinite-length array.
func (e *Encoder) OpenArrayIndefinite() error { return e.open(majorNoneArrayIndefinite, 0) }

// OpenMapIndefinite starts an indefinite-length map.
func (e *Encoder) OpenMapIndefinite() error { return e.open(majorNoneMapIndefinite, 0) }

// OpenBstrWrap starts a byte string whose content is the CBOR encoding of
// the items added until CloseBstrWrap.
func (e *Encoder) OpenBstrWrap() error { return e.open(majorNoneBstrWrap, bstrHeaderSize) }

// CloseArray closes the array opened by OpenArray.
func (e *Encoder) CloseArray() error { return e.closeDefinite(majorTypeArray) }

// CloseMap closes the map opened by OpenMap.
func (e *Encoder) CloseMap() error { return e.closeDefinite(majorTypeMap) }

// CloseArrayIndefinite closes the array opened by OpenArrayIndefinite.
func (e *Encoder) CloseArrayIndefinite() error { return e.closeIndefinite(majorNoneArrayIndefinite) }

// CloseMapIndefinite closes the map opened by OpenMapIndefinite.
func (e *Encoder) CloseMapIndefinite() error { return e.closeIndefinite(majorNoneMapIndefinite) }

// CloseBstrWrap closes the byte string opened by OpenBstrWrap and returns
// the wrapped encoding, without the byte string header. The slice aliases
// the output and is valid until the next write.
func (e *Encoder) CloseBstrWrap() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.tagPending {
		return nil, e.fail(ErrTagWithoutContent)
	}
	l, err := e.nesting.close(majorNoneBstrWrap)
	if err != nil {
		return nil, e.fail(err)
	}
	start := int(l.start)
	payload := uint64(e.out.Pos() - start - bstrHeaderSize)
	if payload > MaxOffset {
		return nil, e.fail(ErrOffsetOverflow)
	}
	var hdr [maxHeadSize]byte
	h := appendHead(hdr[:0], majorTypeBytes, payload)
	e.out.PatchHeader(start, bstrHeaderSize, h)
	return e.out.Bytes()[start+len(h):], nil
}

// open reserves room for a container header and pushes a nesting level.
// A reserve of zero writes the indefinite-length start byte instead.
func (e *Encoder) open(major uint8, reserve int) error {
	if e.err != nil {
		return e.err
	}
	pos := e.out.Pos()
	if err := e.nesting.open(major, pos); err != nil {
		return e.fail(err)
	}
	e.tagPending = false
	var err error
	switch major {
	case majorNoneArrayIndefinite:
		err = e.out.WriteByte(makeByte(majorTypeArray, addInfoIndefinite))
	case majorNoneMapIndefinite:
		err = e.out.WriteByte(makeByte(majorTypeMap, addInfoIndefinite))
	default:
		_, err = e.out.Reserve(reserve)
	}
	if err != nil {
		return e.fail(err)
	}
	return nil
}

// closeDefinite pops an array or map and writes its real header over the
// placeholder, shortest form first, closing any gap left behind.
func (e *Encoder) closeDefinite(major uint8) error {
	if e.err != nil {
		return e.err
	}
	if e.tagPending {
		return e.fail(ErrTagWithoutContent)
	}
	if e.nesting.isNested() && major == majorTypeMap &&
		e.nesting.currentKind() == majorTypeMap && e.nesting.count()%2 != 0 {
		return e.fail(ErrOddMapItems)
	}
	l, err := e.nesting.close(major)
	if err != nil {
		return e.fail(err)
	}
	n := uint64(l.count)
	if major == majorTypeMap {
		n /= 2
	}
	var hdr [maxHeadSize]byte
	e.out.PatchHeader(int(l.start), containerHeaderSize, appendHead(hdr[:0], major, n))
	return nil
}

func (e *Encoder) closeIndefinite(major uint8) error {
	if e.err != nil {
		return e.err
	}
	if e.tagPending {
		return e.fail(ErrTagWithoutContent)
	}
	if major == majorNoneMapIndefinite && e.nesting.isNested() &&
		e.nesting.currentKind() == major && e.nesting.count()%2 != 0 {
		return e.fail(ErrOddMapItems)
	}
	if _, err := e.nesting.close(major); err != nil {
		return e.fail(err)
	}
	if err := e.out.WriteByte(breakByte); err != nil {
		return e.fail(err)
	}
	return nil
}

// count counts one item in the current container; the item satisfies
// any tag written before it.
func (e *Encoder) count() error {
	if err := e.nesting.increment(); err != nil {
		return e.fail(err)
	}
	e.tagPending = false
	return nil
}

// addHead counts one item and writes its head.
func (e *Encoder) addHead(major uint8, arg uint64) error {
	if e.err != nil {
		return e.err
	}
	if err := e.count(); err != nil {
		return err
	}
	if err := e.out.appendHead(major, arg); err != nil {
		return e.fail(err)
	}
	return nil
}

func (e *Encoder) write(p []byte) error {
	if _, err := e.out.Write(p); err != nil {
		return e.fail(err)
	}
	return nil
}

// AddInt64 adds an integer.
func (e *Encoder) AddInt64(v int64) error {
	if v < 0 {
		return e.addHead(majorTypeNegInt, uint64(-1-v))
	}
	return e.addHead(majorTypeUint, uint64(v))
}

// AddUint64 adds an unsigned integer.
func (e *Encoder) AddUint64(v uint64) error { return e.addHead(majorTypeUint, v) }

// AddBytes adds a byte string.
func (e *Encoder) AddBytes(v []byte) error {
	if err := e.addHead(majorTypeBytes, uint64(len(v))); err != nil {
		return err
	}
	return e.write(v)
}

// AddString adds a text string.
func (e *Encoder) AddString(s string) error {
	if err := e.addHead(majorTypeText, uint64(len(s))); err != nil {
		return err
	}
	if _, err := e.out.WriteString(s); err != nil {
		return e.fail(err)
	}
	return nil
}

// AddBool adds true or false.
func (e *Encoder) AddBool(v bool) error {
	if v {
		return e.addHead(majorTypeSimple, simpleTrue)
	}
	return e.addHead(majorTypeSimple, simpleFalse)
}

// AddNull adds null.
func (e *Encoder) AddNull() error { return e.addHead(majorTypeSimple, simpleNull) }

// AddUndef adds undefined.
func (e *Encoder) AddUndef() error { return e.addHead(majorTypeSimple, simpleUndefined) }

// AddFloat64 adds a double-precision float.
func (e *Encoder) AddFloat64(f float64) error {
	if e.err != nil {
		return e.err
	}
	if err := e.count(); err != nil {
		return err
	}
	var b [maxHeadSize]byte
	return e.write(appendFloat64(b[:0], f))
}

// AddFloat32 adds a single-precision float.
func (e *Encoder) AddFloat32(f float32) error {
	if e.err != nil {
		return e.err
	}
	if err := e.count(); err != nil {
		return err
	}
	var b [maxHeadSize]byte
	return e.write(appendFloat32(b[:0], f))
}

// AddTag adds a tag number. The tag applies to the next item and is not
// counted as an item itself.
func (e *Encoder) AddTag(tag uint64) error {
	if e.err != nil {
		return e.err
	}
	if err := e.out.appendHead(majorTypeTag, tag); err != nil {
		return e.fail(err)
	}
	e.tagPending = true
	return nil
}

// AddEncoded adds one already-encoded item verbatim. The caller vouches
// that raw is exactly one well-formed item.
func (e *Encoder) AddEncoded(raw []byte) error {
	if e.err != nil {
		return e.err
	}
	if err := e.count(); err != nil {
		return err
	}
	return e.write(raw)
}
