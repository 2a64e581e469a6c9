package network

import "encoding/binary"

// initialBufferCapacity mirrors the original asio_pbrpc Buffer's kInitSize.
const initialBufferCapacity = 1024

// Buffer is an elastic, singly-owned byte queue with two monotonically
// non-decreasing cursors: readPos <= writePos <= len(buf). The readable span
// is buf[readPos:writePos]; the writable span is buf[writePos:]. It is not
// safe for concurrent use - a Buffer belongs to exactly one connection task
// at a time, matching the per-connection serialization guarantee in §5.
type Buffer struct {
	buf      []byte
	readPos  int
	writePos int
}

// NewBuffer returns an empty buffer with the default initial capacity.
func NewBuffer() *Buffer {
	return &Buffer{buf: make([]byte, initialBufferCapacity)}
}

// ReadableBytes reports the size of the unread region.
func (b *Buffer) ReadableBytes() int { return b.writePos - b.readPos }

// WritableBytes reports the size of the tail region available for writes.
func (b *Buffer) WritableBytes() int { return len(b.buf) - b.writePos }

// Capacity reports the total backing size.
func (b *Buffer) Capacity() int { return len(b.buf) }

// ReadableSlice returns a view of the unread region. The slice is only valid
// until the next mutating call on the buffer.
func (b *Buffer) ReadableSlice() []byte { return b.buf[b.readPos:b.writePos] }

// WritableSlice returns a view of the tail region a caller may write into
// directly (e.g. net.Conn.Read), followed by Consume to advance the cursor.
func (b *Buffer) WritableSlice() []byte { return b.buf[b.writePos:] }

// Consume advances the write cursor by n, as if n bytes had just been
// appended directly into WritableSlice().
func (b *Buffer) Consume(n int) { b.writePos += n }

// Retrieve advances the read cursor by n. When the readable span is fully
// drained, both cursors reset to zero so future writes reuse the front of
// the buffer instead of growing forever.
func (b *Buffer) Retrieve(n int) {
	if n >= b.ReadableBytes() {
		b.readPos, b.writePos = 0, 0
		return
	}
	b.readPos += n
}

// Read returns the next n unread bytes and advances the read cursor past
// them. The returned slice aliases the buffer and is only valid until the
// next mutating call.
func (b *Buffer) Read(n int) []byte {
	p := b.buf[b.readPos : b.readPos+n]
	b.Retrieve(n)
	return p
}

// ReadUint64 consumes the next 8 bytes as a little-endian uint64 (see §9 of
// SPEC_FULL.md for the little-endian decision).
func (b *Buffer) ReadUint64() uint64 {
	v := binary.LittleEndian.Uint64(b.buf[b.readPos:])
	b.Retrieve(8)
	return v
}

// Write appends data, growing or compacting the buffer as needed.
func (b *Buffer) Write(data []byte) {
	b.EnsureWritable(len(data))
	copy(b.buf[b.writePos:], data)
	b.writePos += len(data)
}

// WriteUint64 appends v as a little-endian 8-byte sequence.
func (b *Buffer) WriteUint64(v uint64) {
	b.EnsureWritable(8)
	binary.LittleEndian.PutUint64(b.buf[b.writePos:], v)
	b.writePos += 8
}

// EnsureWritable guarantees at least n writable bytes are available,
// compacting the unread region to the front before growing the backing
// array, preserving readable content exactly.
func (b *Buffer) EnsureWritable(n int) {
	if b.WritableBytes() >= n {
		return
	}
	if b.readPos > 0 {
		readable := b.ReadableBytes()
		copy(b.buf, b.buf[b.readPos:b.writePos])
		b.readPos = 0
		b.writePos = readable
		if b.WritableBytes() >= n {
			return
		}
	}
	grown := make([]byte, b.writePos+n)
	copy(grown, b.buf[:b.writePos])
	b.buf = grown
}

// Shrink reallocates the backing array to exactly ReadableBytes()+reserve,
// preserving content.
func (b *Buffer) Shrink(reserve int) {
	readable := b.ReadableBytes()
	shrunk := make([]byte, readable+reserve)
	copy(shrunk, b.buf[b.readPos:b.writePos])
	b.buf = shrunk
	b.readPos = 0
	b.writePos = readable
}
