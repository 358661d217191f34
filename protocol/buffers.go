package protocol

// FifoBuffer is a circular buffer for serial I/O
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			// Buffer full
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// ReadByte pops one byte, ok is false when the buffer is empty
func (f *FifoBuffer) ReadByte() (byte, bool) {
	if f.read == f.write {
		return 0, false
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, true
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}

// LineBuffer assembles input bytes into command lines.
// CR and LF both terminate a line; empty lines are skipped.
type LineBuffer struct {
	buf      [LineMax]byte
	pos      int
	overflow bool // current line is being discarded
	dropped  bool // last completed line was discarded
}

// Feed adds one byte. It returns the completed line and true when b ends a line.
// A line that exceeded LineMax is returned as nil with ok set; see Overflowed.
func (l *LineBuffer) Feed(b byte) (line []byte, ok bool) {
	if b == '\r' || b == '\n' {
		if l.pos == 0 && !l.overflow {
			return nil, false
		}
		if l.overflow {
			l.pos = 0
			l.overflow = false
			l.dropped = true
			return nil, true
		}
		line = make([]byte, l.pos)
		copy(line, l.buf[:l.pos])
		l.pos = 0
		return line, true
	}

	if l.overflow {
		return nil, false
	}
	if l.pos >= LineMax {
		l.overflow = true
		return nil, false
	}
	l.buf[l.pos] = b
	l.pos++
	return nil, false
}

// Overflowed reports whether the last completed line was too long and
// clears the flag
func (l *LineBuffer) Overflowed() bool {
	d := l.dropped
	l.dropped = false
	return d
}

// Reset discards any partial line
func (l *LineBuffer) Reset() {
	l.pos = 0
	l.overflow = false
	l.dropped = false
}
