// Package line provides the fixed capacity buffer of the line being edited.
package line

// Buffer holds the command being typed in caller provided storage.
// It never grows: Len() <= Cap() and Cursor() <= Len() always hold.
type Buffer struct {
	buf    []byte
	length int
	cursor int
}

// New uses storage as the buffer. The capacity is len(storage).
func New(storage []byte) *Buffer {
	return &Buffer{buf: storage}
}

// Len returns the logical length.
func (b *Buffer) Len() int { return b.length }

// Cap returns the capacity.
func (b *Buffer) Cap() int { return len(b.buf) }

// Cursor returns the cursor index.
func (b *Buffer) Cursor() int { return b.cursor }

// Full tells if no more bytes can be inserted.
func (b *Buffer) Full() bool { return b.length >= len(b.buf) }

// Insert inserts c at the cursor and advances the cursor.
// It returns false without touching the buffer when full.
func (b *Buffer) Insert(c byte) bool {
	if b.Full() {
		return false
	}
	copy(b.buf[b.cursor+1:b.length+1], b.buf[b.cursor:b.length])
	b.buf[b.cursor] = c
	b.length++
	b.cursor++
	return true
}

// DeleteBefore removes the byte before the cursor.
func (b *Buffer) DeleteBefore() bool {
	if b.cursor == 0 {
		return false
	}
	copy(b.buf[b.cursor-1:], b.buf[b.cursor:b.length])
	b.cursor--
	b.length--
	return true
}

// DeleteAt removes the byte under the cursor.
func (b *Buffer) DeleteAt() bool {
	if b.cursor >= b.length {
		return false
	}
	copy(b.buf[b.cursor:], b.buf[b.cursor+1:b.length])
	b.length--
	return true
}

// Left moves the cursor one byte left.
func (b *Buffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

// Right moves the cursor one byte right.
func (b *Buffer) Right() bool {
	if b.cursor >= b.length {
		return false
	}
	b.cursor++
	return true
}

// Home moves the cursor to 0 and returns how far it moved.
func (b *Buffer) Home() int {
	n := b.cursor
	b.cursor = 0
	return n
}

// End moves the cursor to the end and returns how far it moved.
func (b *Buffer) End() int {
	n := b.length - b.cursor
	b.cursor = b.length
	return n
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.length, b.cursor = 0, 0
}

// Set replaces the contents with p, truncated to the capacity, and puts
// the cursor at the end. It returns the number of bytes taken.
func (b *Buffer) Set(p []byte) int {
	n := copy(b.buf, p)
	b.length, b.cursor = n, n
	return n
}

// Snapshot returns the contents. The slice aliases the storage and is
// valid until the next mutation.
func (b *Buffer) Snapshot() []byte {
	return b.buf[:b.length]
}

// Tail returns the contents from the cursor to the end.
func (b *Buffer) Tail() []byte {
	return b.buf[b.cursor:b.length]
}
