package buffer

// Ring is a growable FIFO of float32 samples.
//
// Writes append at the tail and never fail; the backing storage doubles when
// full. Peek copies from the head without consuming, which is what an
// overlapping frame reader needs: peek a whole frame, then Discard one hop.
//
// A Ring is not safe for concurrent use.
type Ring struct {
	data []float32
	head int
	size int
}

// NewRing returns an empty ring with room for capacity samples before it
// has to grow. A non-positive capacity yields a small default.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 16
	}
	return &Ring{data: make([]float32, capacity)}
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int { return r.size }

// Cap returns the current storage capacity.
func (r *Ring) Cap() int { return len(r.data) }

// Free returns how many samples can be written before the ring grows.
func (r *Ring) Free() int { return len(r.data) - r.size }

// Write appends samples to the tail, growing the storage if needed.
func (r *Ring) Write(samples []float32) {
	if len(samples) == 0 {
		return
	}
	if len(samples) > r.Free() {
		r.grow(r.size + len(samples))
	}

	tail := (r.head + r.size) % len(r.data)
	n := copy(r.data[tail:], samples)
	copy(r.data, samples[n:])
	r.size += len(samples)
}

// Peek copies up to len(dst) samples from the head into dst without
// consuming them and returns the count copied.
func (r *Ring) Peek(dst []float32) int {
	n := min(len(dst), r.size)
	if n == 0 {
		return 0
	}

	first := copy(dst[:n], r.data[r.head:])
	copy(dst[first:n], r.data)
	return n
}

// Read copies up to len(dst) samples into dst and consumes them.
func (r *Ring) Read(dst []float32) int {
	n := r.Peek(dst)
	r.Discard(n)
	return n
}

// Discard drops up to n samples from the head and returns the count dropped.
func (r *Ring) Discard(n int) int {
	n = max(0, min(n, r.size))
	r.size -= n
	if r.size == 0 {
		r.head = 0
		return n
	}
	r.head = (r.head + n) % len(r.data)
	return n
}

// Reset empties the ring without releasing storage.
func (r *Ring) Reset() {
	r.head = 0
	r.size = 0
}

func (r *Ring) grow(need int) {
	newCap := len(r.data) * 2
	for newCap < need {
		newCap *= 2
	}

	grown := make([]float32, newCap)
	r.Peek(grown)
	r.data = grown
	r.head = 0
}
