package cbor

import (
	"math"
	"unsafe"
)

// Allocator supplies memory for strings the Decoder has to assemble,
// chiefly indefinite-length strings whose chunks must be concatenated.
//
// Realloc follows the usual reallocate contract:
//   - old == nil requests a fresh allocation of newSize bytes;
//   - newSize == 0 releases old;
//   - otherwise old is resized to newSize.
//
// Callers must use the returned slice; resizing may or may not happen in
// place. Failures are reported as ErrAllocatorOutOfMemory.
type Allocator interface {
	Realloc(old []byte, newSize int) ([]byte, error)
}

// AllocatorFunc adapts an ordinary function to the Allocator interface.
type AllocatorFunc func(old []byte, newSize int) ([]byte, error)

// Realloc calls f(old, newSize).
func (f AllocatorFunc) Realloc(old []byte, newSize int) ([]byte, error) {
	return f(old, newSize)
}

// NoAllocator refuses every request with ErrAllocationDisabled. It is the
// Decoder's default, which makes indefinite-length strings opt-in.
var NoAllocator Allocator = disabledAllocator{}

type disabledAllocator struct{}

func (disabledAllocator) Realloc(old []byte, newSize int) ([]byte, error) {
	if newSize == 0 {
		return nil, nil
	}
	return nil, ErrAllocationDisabled
}

// HeapAllocator allocates from the Go heap, growing by copy.
type HeapAllocator struct{}

// Realloc implements Allocator.
func (HeapAllocator) Realloc(old []byte, newSize int) ([]byte, error) {
	switch {
	case newSize < 0:
		return nil, ErrAllocatorOutOfMemory
	case newSize == 0:
		return nil, nil
	case newSize <= cap(old):
		return old[:newSize], nil
	}
	nb := make([]byte, newSize)
	copy(nb, old)
	return nb, nil
}

// MemPool is a bump allocator over a fixed caller-supplied buffer.
//
// Allocations are carved forward from a free offset and never reused,
// except that the most recent allocation may be resized in place or
// released. That is all the Decoder needs: it builds one string at a
// time, growing it chunk by chunk. Reset rewinds the whole pool.
type MemPool struct {
	pool    []byte
	size    uint32
	free    uint32
	last    uint32 // start of the most recent allocation
	hasLast bool
}

// NewMemPool returns a MemPool over pool.
func NewMemPool(pool []byte) (*MemPool, error) {
	p := &MemPool{}
	if err := p.Init(pool); err != nil {
		return nil, err
	}
	return p, nil
}

// Init points the pool at buf and resets it.
func (p *MemPool) Init(buf []byte) error {
	if uint64(len(buf)) > math.MaxUint32 {
		return UintOverflow{Value: uint64(len(buf)), FailedBitsize: 32}
	}
	*p = MemPool{pool: buf, size: uint32(len(buf))}
	return nil
}

// Size returns the pool size in bytes.
func (p *MemPool) Size() int { return int(p.size) }

// FreeOffset returns how many bytes of the pool are claimed.
func (p *MemPool) FreeOffset() int { return int(p.free) }

// Reset releases every allocation.
func (p *MemPool) Reset() {
	p.free = 0
	p.hasLast = false
}

// Realloc implements Allocator.
func (p *MemPool) Realloc(old []byte, newSize int) ([]byte, error) {
	if newSize < 0 {
		return nil, ErrAllocatorOutOfMemory
	}
	if old == nil {
		if newSize == 0 {
			return nil, nil
		}
		if uint64(newSize) > uint64(p.size-p.free) {
			return nil, ErrAllocatorOutOfMemory
		}
		start := p.free
		p.free += uint32(newSize)
		p.last, p.hasLast = start, true
		return p.pool[start:p.free:p.free], nil
	}

	off, ok := p.offsetOf(old)
	top := ok && p.hasLast && off == p.last
	if newSize == 0 {
		// Only the topmost claim can be given back.
		if top {
			p.free = p.last
			p.hasLast = false
		}
		return nil, nil
	}
	if !top || uint64(newSize) > uint64(p.size-p.last) {
		return nil, ErrAllocatorOutOfMemory
	}
	p.free = p.last + uint32(newSize)
	return p.pool[p.last:p.free:p.free], nil
}

// offsetOf reports where b starts inside the pool.
func (p *MemPool) offsetOf(b []byte) (uint32, bool) {
	if cap(b) == 0 || p.size == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.pool)))
	at := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if at < base || at >= base+uintptr(p.size) {
		return 0, false
	}
	return uint32(at - base), true
}
