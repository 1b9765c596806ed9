package cbor

// encodeLevel is the state kept for one open container while encoding.
type encodeLevel struct {
	start uint32 // output position of the container's reserved header
	count uint16 // items so far; a map pair counts as two
	major uint8  // majorTypeArray, majorTypeMap or an internal kind
}

// encodeNesting tracks open arrays and maps while encoding. It is a fixed
// array indexed by cur, so hostile or buggy callers can never push it past
// MaxNesting. Level 0 is the top level, outside any container.
type encodeNesting struct {
	levels [MaxNesting + 1]encodeLevel
	cur    int
}

func (n *encodeNesting) init() {
	*n = encodeNesting{}
}

// depth returns how many containers are open.
func (n *encodeNesting) depth() int { return n.cur }

func (n *encodeNesting) isNested() bool { return n.cur > 0 }

func (n *encodeNesting) currentKind() uint8 { return n.levels[n.cur].major }

func (n *encodeNesting) count() uint16 { return n.levels[n.cur].count }

// open pushes a level for a container whose header is reserved at pos.
// The container is counted as one item of its parent. Nothing changes
// when open fails.
func (n *encodeNesting) open(major uint8, pos int) error {
	if n.cur >= MaxNesting {
		return ErrNestingTooDeep
	}
	if pos < 0 || uint64(pos) > MaxOffset {
		return ErrOffsetOverflow
	}
	if err := n.increment(); err != nil {
		return err
	}
	n.cur++
	n.levels[n.cur] = encodeLevel{start: uint32(pos), major: major}
	return nil
}

// increment counts one item appended directly inside the current level.
// Top-level items are not counted; a CBOR sequence may be any length.
func (n *encodeNesting) increment() error {
	if n.cur == 0 {
		return nil
	}
	l := &n.levels[n.cur]
	if l.count >= MaxItemsInContainer {
		return ErrArrayOrMapTooLong
	}
	l.count++
	return nil
}

// close validates and pops the current level, returning it so the caller
// can patch the header.
func (n *encodeNesting) close(major uint8) (encodeLevel, error) {
	if n.cur == 0 {
		return encodeLevel{}, ErrCloseMismatch
	}
	l := n.levels[n.cur]
	if l.major != major {
		return encodeLevel{}, ErrCloseMismatch
	}
	if l.start > MaxOffset {
		return encodeLevel{}, ErrOffsetOverflow
	}
	n.cur--
	return l, nil
}

// decodeLevel is the state kept for one open container while decoding.
type decodeLevel struct {
	count uint16 // items still expected, or indefiniteCount
	major uint8
	odd   bool // indefinite levels: an odd number of items consumed so far
}

// decodeNesting tracks open arrays and maps while decoding. Like
// encodeNesting it never recurses and never grows.
type decodeNesting struct {
	levels [MaxNesting + 1]decodeLevel
	cur    int
}

func (n *decodeNesting) init() {
	*n = decodeNesting{}
}

// depth returns how many containers are open.
func (n *decodeNesting) depth() int { return n.cur }

func (n *decodeNesting) isNested() bool { return n.cur > 0 }

// isIndefinite reports whether the current container closes on break.
func (n *decodeNesting) isIndefinite() bool {
	return n.cur > 0 && n.levels[n.cur].count == indefiniteCount
}

// currentKind returns the major type of the current container, or 0 at
// the top level.
func (n *decodeNesting) currentKind() uint8 {
	if n.cur == 0 {
		return 0
	}
	return n.levels[n.cur].major
}

func (n *decodeNesting) isInside(major uint8) bool {
	return n.currentKind() == major
}

// remaining returns the items still expected in the current container.
func (n *decodeNesting) remaining() uint16 { return n.levels[n.cur].count }

// open pushes a level. count is the declared number of items, already
// doubled for maps; indefinite containers pass indefiniteCount. An empty
// definite container is popped again immediately and counted in its
// parent.
func (n *decodeNesting) open(major uint8, count uint64, indefinite bool) error {
	if !indefinite && count > MaxItemsInContainer {
		return ErrArrayOrMapTooLong
	}
	if n.cur >= MaxNesting {
		return ErrNestingTooDeep
	}
	n.cur++
	if indefinite {
		n.levels[n.cur] = decodeLevel{count: indefiniteCount, major: major}
		return nil
	}
	n.levels[n.cur] = decodeLevel{count: uint16(count), major: major}
	if count == 0 {
		n.cur--
		n.consumeOne()
	}
	return nil
}

// consumeOne counts one item consumed from the current container. A
// definite container that reaches zero is closed and the close is counted
// in its parent, cascading upward.
func (n *decodeNesting) consumeOne() {
	for n.cur > 0 {
		l := &n.levels[n.cur]
		if l.count == indefiniteCount {
			l.odd = !l.odd
			return
		}
		l.count--
		if l.count != 0 {
			return
		}
		n.cur--
	}
}

// closeIndefinite handles a break: it pops the current container, which
// must be indefinite, and counts it in its parent. A map holding a label
// without its value cannot be closed.
func (n *decodeNesting) closeIndefinite() error {
	if !n.isIndefinite() {
		return ErrUnexpectedBreak
	}
	if l := n.levels[n.cur]; l.major == majorTypeMap && l.odd {
		return ErrUnexpectedBreak
	}
	n.cur--
	n.consumeOne()
	return nil
}
