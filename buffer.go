// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// cursor is the position/limit/capacity window shared by ByteBuffer and
// CharBuffer. The storage slice always has len == capacity. Slices and
// duplicates alias the same storage.
//
// Invariant: -1 <= mark <= pos <= lim <= len(buf); mark == -1 means unset.
type cursor[T byte | uint16] struct {
	buf    []T
	pos    int
	lim    int
	mark   int
	direct bool

	// mem pins off-heap storage for as long as any view of it exists.
	mem *directMem
}

func newCursor[T byte | uint16](buf []T) cursor[T] {
	return cursor[T]{buf: buf, lim: len(buf), mark: -1}
}

func bufferPanic(msg string, args ...int) {
	for _, a := range args {
		msg += " " + strconv.Itoa(a)
	}
	panic("charconv: buffer: " + msg)
}

// Capacity returns the fixed size of the buffer.
func (c *cursor[T]) Capacity() int { return len(c.buf) }

// Position returns the index of the next element to be read or written.
func (c *cursor[T]) Position() int { return c.pos }

// Limit returns the index of the first element that must not be read or
// written.
func (c *cursor[T]) Limit() int { return c.lim }

// Remaining returns Limit() - Position().
func (c *cursor[T]) Remaining() int { return c.lim - c.pos }

// HasRemaining reports whether Position() < Limit().
func (c *cursor[T]) HasRemaining() bool { return c.pos < c.lim }

// IsDirect reports whether the buffer's storage lives outside the Go heap.
func (c *cursor[T]) IsDirect() bool { return c.direct }

// HasArray reports whether Array may be called.
func (c *cursor[T]) HasArray() bool { return !c.direct }

// SetPosition moves the position. A mark beyond the new position is
// discarded. It panics if p is outside [0, Limit()].
func (c *cursor[T]) SetPosition(p int) {
	if p < 0 || p > c.lim {
		bufferPanic("position out of range:", p, c.lim)
	}
	c.pos = p
	if c.mark > p {
		c.mark = -1
	}
}

// SetLimit moves the limit, pulling the position and mark back if needed.
// It panics if l is outside [0, Capacity()].
func (c *cursor[T]) SetLimit(l int) {
	if l < 0 || l > len(c.buf) {
		bufferPanic("limit out of range:", l, len(c.buf))
	}
	c.lim = l
	if c.pos > l {
		c.pos = l
	}
	if c.mark > l {
		c.mark = -1
	}
}

// Mark records the current position for a later Reset.
func (c *cursor[T]) Mark() { c.mark = c.pos }

// Reset returns the position to the mark. It panics if no mark is set.
func (c *cursor[T]) Reset() {
	if c.mark < 0 {
		bufferPanic("reset without mark")
	}
	c.pos = c.mark
}

// Clear makes the whole buffer writable: position 0, limit capacity.
func (c *cursor[T]) Clear() {
	c.pos = 0
	c.lim = len(c.buf)
	c.mark = -1
}

// Flip switches from writing to reading: the limit becomes the current
// position and the position becomes 0.
func (c *cursor[T]) Flip() {
	c.lim = c.pos
	c.pos = 0
	c.mark = -1
}

// Rewind sets the position to 0 so the content can be read again.
func (c *cursor[T]) Rewind() {
	c.pos = 0
	c.mark = -1
}

// Compact moves the remaining elements to the start of the buffer and
// prepares it for further writing after them.
func (c *cursor[T]) Compact() {
	n := copy(c.buf, c.buf[c.pos:c.lim])
	c.pos = n
	c.lim = len(c.buf)
	c.mark = -1
}

// Get reads the element at the position and advances it. It panics if no
// element remains.
func (c *cursor[T]) Get() T {
	if c.pos >= c.lim {
		bufferPanic("get past limit:", c.pos)
	}
	v := c.buf[c.pos]
	c.pos++
	return v
}

// Put writes v at the position and advances it. It panics if the buffer
// is full.
func (c *cursor[T]) Put(v T) {
	if c.pos >= c.lim {
		bufferPanic("put past limit:", c.pos)
	}
	c.buf[c.pos] = v
	c.pos++
}

// GetAt reads the element at absolute index i without moving the position.
func (c *cursor[T]) GetAt(i int) T {
	if i < 0 || i >= c.lim {
		bufferPanic("index out of range:", i, c.lim)
	}
	return c.buf[i]
}

// PutAt writes v at absolute index i without moving the position.
func (c *cursor[T]) PutAt(i int, v T) {
	if i < 0 || i >= c.lim {
		bufferPanic("index out of range:", i, c.lim)
	}
	c.buf[i] = v
}

// PutSlice copies all of src at the position. It panics if src does not
// fit.
func (c *cursor[T]) PutSlice(src []T) {
	if len(src) > c.lim-c.pos {
		bufferPanic("put past limit:", c.pos+len(src), c.lim)
	}
	c.pos += copy(c.buf[c.pos:], src)
}

// GetSlice fills dst from the position and advances past what was read. It
// returns the number of elements copied.
func (c *cursor[T]) GetSlice(dst []T) int {
	n := copy(dst, c.buf[c.pos:c.lim])
	c.pos += n
	return n
}

// rest returns the readable or writable window [pos, lim).
func (c *cursor[T]) rest() []T { return c.buf[c.pos:c.lim] }

func (c *cursor[T]) skip(n int) { c.pos += n }

func (c *cursor[T]) sliceCursor() cursor[T] {
	s := newCursor(c.buf[c.pos:c.lim:c.lim])
	s.direct = c.direct
	s.mem = c.mem
	return s
}

func (c *cursor[T]) dupCursor() cursor[T] {
	d := *c
	return d
}

// ByteBuffer is a position/limit/capacity cursor over bytes.
type ByteBuffer struct {
	cursor[byte]
}

// NewByteBuffer allocates a heap buffer of capacity n.
func NewByteBuffer(n int) *ByteBuffer {
	return &ByteBuffer{newCursor(make([]byte, n))}
}

// WrapBytes returns a heap buffer that reads and writes b directly.
func WrapBytes(b []byte) *ByteBuffer {
	return &ByteBuffer{newCursor(b[:len(b):len(b)])}
}

// AllocateDirectBytes allocates a buffer of capacity n whose storage is not
// part of the Go heap and is not exposed through Array.
func AllocateDirectBytes(n int) *ByteBuffer {
	mem := allocDirect(n)
	c := newCursor(mem.b)
	c.direct = true
	c.mem = mem
	return &ByteBuffer{c}
}

// Array returns the backing storage of a heap buffer. It panics for direct
// buffers.
func (b *ByteBuffer) Array() []byte {
	if b.direct {
		bufferPanic("direct buffer has no accessible array")
	}
	return b.buf
}

// Slice returns a new buffer over the remaining bytes of b. Content is
// shared, cursors are independent.
func (b *ByteBuffer) Slice() *ByteBuffer {
	return &ByteBuffer{b.sliceCursor()}
}

// Duplicate returns a new buffer sharing b's content, with a copy of its
// cursor.
func (b *ByteBuffer) Duplicate() *ByteBuffer {
	return &ByteBuffer{b.dupCursor()}
}

// Bytes returns a copy of the remaining bytes without moving the position.
func (b *ByteBuffer) Bytes() []byte {
	return append([]byte(nil), b.rest()...)
}

func (b *ByteBuffer) String() string {
	return "ByteBuffer[pos=" + strconv.Itoa(b.pos) + " lim=" + strconv.Itoa(b.lim) +
		" cap=" + strconv.Itoa(len(b.buf)) + "]"
}

// CharBuffer is a position/limit/capacity cursor over UTF-16 code units.
type CharBuffer struct {
	cursor[uint16]
}

// NewCharBuffer allocates a heap buffer of capacity n code units.
func NewCharBuffer(n int) *CharBuffer {
	return &CharBuffer{newCursor(make([]uint16, n))}
}

// WrapChars returns a heap buffer that reads and writes u directly.
func WrapChars(u []uint16) *CharBuffer {
	return &CharBuffer{newCursor(u[:len(u):len(u)])}
}

// WrapString returns a heap buffer holding the UTF-16 form of s. Invalid
// UTF-8 in s becomes U+FFFD.
func WrapString(s string) *CharBuffer {
	return &CharBuffer{newCursor(toUTF16(s))}
}

// AllocateDirectChars allocates a buffer of capacity n code units whose
// storage is not part of the Go heap and is not exposed through Array.
func AllocateDirectChars(n int) *CharBuffer {
	mem := allocDirect(2 * n)
	c := newCursor(mem.chars(n))
	c.direct = true
	c.mem = mem
	return &CharBuffer{c}
}

// Array returns the backing storage of a heap buffer. It panics for direct
// buffers.
func (b *CharBuffer) Array() []uint16 {
	if b.direct {
		bufferPanic("direct buffer has no accessible array")
	}
	return b.buf
}

// Slice returns a new buffer over the remaining code units of b.
func (b *CharBuffer) Slice() *CharBuffer {
	return &CharBuffer{b.sliceCursor()}
}

// Duplicate returns a new buffer sharing b's content, with a copy of its
// cursor.
func (b *CharBuffer) Duplicate() *CharBuffer {
	return &CharBuffer{b.dupCursor()}
}

// PutString writes the UTF-16 form of s at the position. It panics if it
// does not fit.
func (b *CharBuffer) PutString(s string) {
	b.PutSlice(toUTF16(s))
}

// Chars returns a copy of the remaining code units without moving the
// position.
func (b *CharBuffer) Chars() []uint16 {
	return append([]uint16(nil), b.rest()...)
}

// String returns the remaining code units as a Go string without moving
// the position. Unpaired surrogates become U+FFFD.
func (b *CharBuffer) String() string {
	return string(utf16.Decode(b.rest()))
}

func toUTF16(s string) []uint16 {
	u := make([]uint16, 0, len(s))
	for _, r := range s {
		if r == utf8.RuneError {
			u = append(u, 0xFFFD)
			continue
		}
		u = utf16.AppendRune(u, r)
	}
	return u
}
