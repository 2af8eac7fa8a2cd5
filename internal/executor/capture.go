package executor

import (
	"sync"
	"unicode/utf8"
)

// MaxCaptureBytes bounds how much of each stream a runner keeps. Output is
// cut to a few thousand characters later anyway; this only protects memory
// from programs that print in a tight loop.
const MaxCaptureBytes = 1 << 20

// LimitedBuffer is an io.Writer that keeps at most limit bytes and silently
// discards the rest. By default the first limit bytes are kept; a buffer
// from NewTailBuffer keeps the last ones instead. Writes never fail, so a
// chatty program is not killed by a broken pipe.
type LimitedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	tail      bool
	truncated bool
}

// NewLimitedBuffer creates a buffer holding the first limit bytes written.
func NewLimitedBuffer(limit int) *LimitedBuffer {
	return &LimitedBuffer{limit: limit}
}

// NewTailBuffer creates a buffer holding the last limit bytes written.
func NewTailBuffer(limit int) *LimitedBuffer {
	return &LimitedBuffer{limit: limit, tail: true}
}

func (b *LimitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tail {
		b.writeTail(p)
		return len(p), nil
	}

	room := b.limit - len(b.buf)
	if room <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > room {
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// writeTail lets buf grow to twice the limit before dropping the head, so
// a stream of small writes is not copied over and over.
func (b *LimitedBuffer) writeTail(p []byte) {
	if len(p) >= b.limit {
		if len(p) > b.limit || len(b.buf) > 0 {
			b.truncated = true
		}
		b.buf = append(b.buf[:0], p[len(p)-b.limit:]...)
		return
	}
	b.buf = append(b.buf, p...)
	if len(b.buf) > 2*b.limit {
		n := copy(b.buf, b.buf[len(b.buf)-b.limit:])
		b.buf = b.buf[:n]
		b.truncated = true
	}
}

// String returns the captured bytes. A tail cut in the middle of a UTF-8
// sequence starts at the next whole character.
func (b *LimitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.tail {
		return string(b.buf)
	}
	data := b.buf
	if len(data) > b.limit {
		data = data[len(data)-b.limit:]
	}
	if b.dropped() {
		data = trimPartialRune(data)
	}
	return string(data)
}

// Truncated reports whether anything was dropped.
func (b *LimitedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped()
}

func (b *LimitedBuffer) dropped() bool {
	return b.truncated || (b.tail && len(b.buf) > b.limit)
}

// trimPartialRune drops leading UTF-8 continuation bytes.
func trimPartialRune(p []byte) []byte {
	for i := 0; i < len(p) && i < utf8.UTFMax; i++ {
		if utf8.RuneStart(p[i]) {
			return p[i:]
		}
	}
	return p
}
