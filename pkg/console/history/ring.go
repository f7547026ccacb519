// Package history keeps previously submitted lines in fixed storage.
package history

import (
	"bytes"
	"errors"
)

var (
	// ErrTooLong indicates an entry can never fit into the storage.
	ErrTooLong = errors.New("history entry too long")
	// ErrInvalidEntry indicates an empty entry or one containing a NUL byte.
	ErrInvalidEntry = errors.New("invalid history entry")
)

// Ring stores entries oldest first, each terminated by a NUL byte, in
// caller provided storage. When a new entry doesn't fit, the oldest ones
// are evicted.
type Ring struct {
	buf   []byte
	used  int
	count int
}

// New uses storage for the ring. The capacity is len(storage).
func New(storage []byte) *Ring {
	return &Ring{buf: storage}
}

// Cap returns the capacity in bytes.
func (r *Ring) Cap() int { return len(r.buf) }

// Used returns the bytes taken by entries, terminators included.
func (r *Ring) Used() int { return r.used }

// Len returns the number of entries.
func (r *Ring) Len() int { return r.count }

// Push appends an entry. Pushing the same line as the most recent entry
// keeps a single copy.
func (r *Ring) Push(p []byte) error {
	if len(p) == 0 || bytes.IndexByte(p, 0) >= 0 {
		return ErrInvalidEntry
	}
	size := len(p) + 1
	if size > len(r.buf) {
		return ErrTooLong
	}
	if last, ok := r.Recall(0); ok && bytes.Equal(last, p) {
		return nil
	}
	for r.used+size > len(r.buf) {
		r.evict()
	}
	copy(r.buf[r.used:], p)
	r.buf[r.used+len(p)] = 0
	r.used += size
	r.count++
	return nil
}

// Recall returns the entry offset steps back from the most recent one.
// The slice aliases the storage and is valid until the next Push.
func (r *Ring) Recall(offset int) ([]byte, bool) {
	if offset < 0 || offset >= r.count {
		return nil, false
	}
	end := r.used - 1
	for n := 0; ; n++ {
		start := bytes.LastIndexByte(r.buf[:end], 0) + 1
		if n == offset {
			return r.buf[start:end], true
		}
		end = start - 1
	}
}

// Clear removes all entries.
func (r *Ring) Clear() {
	r.used, r.count = 0, 0
}

func (r *Ring) evict() {
	size := bytes.IndexByte(r.buf[:r.used], 0) + 1
	copy(r.buf, r.buf[size:r.used])
	r.used -= size
	r.count--
}
