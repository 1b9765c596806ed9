package cbor

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemPoolExactFill(t *testing.T) {
	p, err := NewMemPool(make([]byte, 10))
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{3, 3, 4} {
		b, err := p.Realloc(nil, n)
		if err != nil {
			t.Fatalf("alloc %d: %v", n, err)
		}
		if len(b) != n || cap(b) != n {
			t.Fatalf("alloc %d: len %d cap %d", n, len(b), cap(b))
		}
	}
	if p.FreeOffset() != p.Size() {
		t.Fatalf("free %d size %d", p.FreeOffset(), p.Size())
	}
	if _, err := p.Realloc(nil, 1); !errors.Is(err, ErrAllocatorOutOfMemory) {
		t.Fatalf("alloc past end: got %v", err)
	}
}

func TestMemPoolGrowTopmost(t *testing.T) {
	p, _ := NewMemPool(make([]byte, 16))
	first, _ := p.Realloc(nil, 2)
	b, err := p.Realloc(nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	copy(b, "ab")
	b, err = p.Realloc(b, 6)
	if err != nil {
		t.Fatalf("grow topmost: %v", err)
	}
	if !bytes.Equal(b[:2], []byte("ab")) || len(b) != 6 {
		t.Fatalf("grown contents %q", b)
	}
	if p.FreeOffset() != 8 {
		t.Fatalf("free %d, want 8", p.FreeOffset())
	}
	if _, err := p.Realloc(first, 4); !errors.Is(err, ErrAllocatorOutOfMemory) {
		t.Fatalf("grow non-topmost: got %v", err)
	}
	if _, err := p.Realloc(b, 17); !errors.Is(err, ErrAllocatorOutOfMemory) {
		t.Fatalf("grow past pool: got %v", err)
	}
}

func TestMemPoolRelease(t *testing.T) {
	p, _ := NewMemPool(make([]byte, 8))
	a, _ := p.Realloc(nil, 3)
	b, _ := p.Realloc(nil, 3)
	if _, err := p.Realloc(a, 0); err != nil {
		t.Fatal(err)
	}
	if p.FreeOffset() != 6 {
		t.Fatalf("release of interior allocation moved free to %d", p.FreeOffset())
	}
	if _, err := p.Realloc(b, 0); err != nil {
		t.Fatal(err)
	}
	if p.FreeOffset() != 3 {
		t.Fatalf("release of topmost: free %d, want 3", p.FreeOffset())
	}
	p.Reset()
	if p.FreeOffset() != 0 {
		t.Fatalf("reset: free %d", p.FreeOffset())
	}
}

func TestMemPoolForeignSlice(t *testing.T) {
	p, _ := NewMemPool(make([]byte, 8))
	if _, err := p.Realloc(make([]byte, 2), 4); !errors.Is(err, ErrAllocatorOutOfMemory) {
		t.Fatalf("grow foreign slice: got %v", err)
	}
}

func TestNoAllocator(t *testing.T) {
	if _, err := NoAllocator.Realloc(nil, 4); !errors.Is(err, ErrAllocationDisabled) {
		t.Fatalf("got %v", err)
	}
	if b, err := NoAllocator.Realloc(nil, 0); err != nil || b != nil {
		t.Fatalf("release: %v %v", b, err)
	}
}

func TestHeapAllocatorAndFunc(t *testing.T) {
	var calls int
	a := AllocatorFunc(func(old []byte, n int) ([]byte, error) {
		calls++
		return HeapAllocator{}.Realloc(old, n)
	})
	b, err := a.Realloc(nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	copy(b, "xyz")
	b, err = a.Realloc(b, 5)
	if err != nil || string(b[:3]) != "xyz" || len(b) != 5 {
		t.Fatalf("grow: %q %v", b, err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}
}
