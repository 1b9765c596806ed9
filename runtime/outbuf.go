package cbor

import "sync"

// OutBuf is the output cursor the Encoder writes through.
//
// Built over a caller slice it never grows past that slice's capacity and
// reports ErrBufferTooSmall instead. Built over nil it grows on demand.
// Either way positions are plain byte offsets from the start of the output,
// which is what container headers are patched against.
type OutBuf struct {
	b     []byte
	fixed bool
}

var outBufPool = sync.Pool{New: func() any { return &OutBuf{b: make([]byte, 0, 1024)} }}

// GetOutBuf obtains a pooled, growable OutBuf with length zero.
func GetOutBuf() *OutBuf {
	ob := outBufPool.Get().(*OutBuf)
	ob.fixed = false
	ob.Reset()
	return ob
}

// PutOutBuf returns the buffer to the pool. The caller must not use
// slices obtained from Bytes afterwards.
func PutOutBuf(ob *OutBuf) {
	if ob.fixed {
		return
	}
	ob.Reset()
	outBufPool.Put(ob)
}

// Init points the cursor at buf. A nil buf selects a growable buffer;
// otherwise output is written into buf[:cap(buf)] and never beyond.
func (ob *OutBuf) Init(buf []byte) {
	ob.fixed = buf != nil
	ob.b = buf[:0]
}

// Bytes returns the bytes written so far.
func (ob *OutBuf) Bytes() []byte { return ob.b }

// Pos returns the current write position.
func (ob *OutBuf) Pos() int { return len(ob.b) }

// Cap returns capacity.
func (ob *OutBuf) Cap() int { return cap(ob.b) }

// Reset resets the length to zero; capacity is unchanged.
func (ob *OutBuf) Reset() { ob.b = ob.b[:0] }

// Ensure ensures there is room for at least n more bytes. A fixed buffer
// that cannot hold them reports ErrBufferTooSmall.
func (ob *OutBuf) Ensure(n int) error {
	need := len(ob.b) + n
	if cap(ob.b) >= need {
		return nil
	}
	if ob.fixed {
		return ErrBufferTooSmall
	}
	// Grow: double until enough, then allocate
	c := cap(ob.b)
	if c == 0 {
		c = 1024
	}
	for c < need {
		c <<= 1
	}
	nb := make([]byte, len(ob.b), c)
	copy(nb, ob.b)
	ob.b = nb
	return nil
}

// Extend grows the buffer by n bytes and returns the newly appended region
// for direct writes.
func (ob *OutBuf) Extend(n int) ([]byte, error) {
	if err := ob.Ensure(n); err != nil {
		return nil, err
	}
	old := len(ob.b)
	ob.b = ob.b[:old+n]
	return ob.b[old:], nil
}

// Write appends p. It implements io.Writer.
func (ob *OutBuf) Write(p []byte) (int, error) {
	if err := ob.Ensure(len(p)); err != nil {
		return 0, err
	}
	ob.b = append(ob.b, p...)
	return len(p), nil
}

// WriteString appends a string.
func (ob *OutBuf) WriteString(s string) (int, error) {
	if err := ob.Ensure(len(s)); err != nil {
		return 0, err
	}
	ob.b = append(ob.b, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (ob *OutBuf) WriteByte(c byte) error {
	if err := ob.Ensure(1); err != nil {
		return err
	}
	ob.b = append(ob.b, c)
	return nil
}

// Reserve appends n placeholder bytes and returns where they start.
func (ob *OutBuf) Reserve(n int) (int, error) {
	pos := len(ob.b)
	r, err := ob.Extend(n)
	if err != nil {
		return pos, err
	}
	clear(r)
	return pos, nil
}

// PatchHeader overwrites the reserved bytes at [pos, pos+reserved) with hdr
// and shifts everything written after them down when hdr is shorter, so no
// gap is left in the output.
func (ob *OutBuf) PatchHeader(pos, reserved int, hdr []byte) {
	if len(hdr) > reserved || pos+reserved > len(ob.b) {
		panic("cbor: header patch outside reserved space")
	}
	copy(ob.b[pos:], hdr)
	if gap := reserved - len(hdr); gap > 0 {
		n := copy(ob.b[pos+len(hdr):], ob.b[pos+reserved:])
		ob.b = ob.b[:pos+len(hdr)+n]
	}
}

// appendHead writes an item head, failing without partial output when it
// does not fit.
func (ob *OutBuf) appendHead(major uint8, arg uint64) error {
	var hdr [maxHeadSize]byte
	_, err := ob.Write(appendHead(hdr[:0], major, arg))
	return err
}
