package cbor

// InBuf is the input cursor the Decoder reads through. It is a slice
// with a read position; nothing is copied.
type InBuf struct {
	buf []byte
	pos int
}

// Init points the cursor at the start of b.
func (ib *InBuf) Init(b []byte) {
	ib.buf = b
	ib.pos = 0
}

// Tell returns the current read position.
func (ib *InBuf) Tell() int { return ib.pos }

// Seek moves the read position. Positions past the end are clamped.
func (ib *InBuf) Seek(pos int) {
	if pos > len(ib.buf) {
		pos = len(ib.buf)
	}
	ib.pos = pos
}

// BytesUnconsumed returns how many bytes remain.
func (ib *InBuf) BytesUnconsumed() int { return len(ib.buf) - ib.pos }

// PeekByte returns the next byte without consuming it.
func (ib *InBuf) PeekByte() (byte, bool) {
	if ib.pos >= len(ib.buf) {
		return 0, false
	}
	return ib.buf[ib.pos], true
}

// Consume returns the next n bytes and advances past them.
func (ib *InBuf) Consume(n uint64) ([]byte, error) {
	if n > uint64(len(ib.buf)-ib.pos) {
		return nil, ErrUnexpectedEnd
	}
	out := ib.buf[ib.pos : ib.pos+int(n)]
	ib.pos += int(n)
	return out, nil
}

// readHead decodes and consumes the next item head. On error the
// position is unchanged.
func (ib *InBuf) readHead() (head, error) {
	h, err := readHead(ib.buf[ib.pos:])
	if err != nil {
		return h, err
	}
	ib.pos += h.size
	return h, nil
}
