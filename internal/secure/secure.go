// Package secure provides memory-hygiene helpers for sensitive byte
// buffers: explicit zeroing on every release path and best-effort
// mlock/munlock so secret material is less likely to be paged to disk.
package secure

import (
	"runtime"
	"sync"
)

// Zero overwrites every byte of b with zero. Safe to call on a nil or
// empty slice. Used at every release/reset/error-exit path that spec.md
// §5 requires to wipe transient buffers (points arrays, digest scratch,
// accumulator buckets).
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroAll zeroes every slice in bs, in order.
func ZeroAll(bs ...[]byte) {
	for _, b := range bs {
		Zero(b)
	}
}

// Bytes wraps a sensitive byte slice with mlock (best effort) and
// guarantees zeroing on Destroy, on GC if Destroy is never called, and
// is safe to call Destroy multiple times.
type Bytes struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// New allocates a Bytes of the given size, locked in memory if the
// platform supports it.
func New(size int) *Bytes {
	b := &Bytes{data: make([]byte, size)}
	b.locked = mlock(b.data)
	runtime.SetFinalizer(b, func(s *Bytes) { s.Destroy() })
	return b
}

// FromSlice copies data into a new locked Bytes. The caller retains
// ownership of (and responsibility for zeroing) the original slice.
func FromSlice(data []byte) *Bytes {
	b := New(len(data))
	copy(b.data, data)
	return b
}

// Bytes returns the underlying slice, or nil once Destroy has run.
func (b *Bytes) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Len returns the length of the wrapped data, or 0 after Destroy.
func (b *Bytes) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// IsLocked reports whether the backing memory is mlocked.
func (b *Bytes) IsLocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Destroy zeroes and unlocks the memory. Idempotent.
func (b *Bytes) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return
	}

	Zero(b.data)
	if b.locked {
		munlock(b.data)
		b.locked = false
	}
	b.data = nil

	runtime.SetFinalizer(b, nil)
}
