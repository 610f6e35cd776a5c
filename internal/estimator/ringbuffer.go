package estimator

import "github.com/pozzari-rocketry/flightcore/internal/types"

// ringBuffer is a fixed-capacity, arena-less FIFO of Measurements:
// capacity is fixed at construction and never reallocated, so the
// bootstrap estimator never grows a container on the hot path.
type ringBuffer struct {
	data  []types.Measurement
	head  int // index of the oldest element
	count int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{data: make([]types.Measurement, capacity)}
}

// Push appends a sample, overwriting the oldest entry once the buffer is
// full.
func (r *ringBuffer) Push(m types.Measurement) {
	idx := (r.head + r.count) % len(r.data)
	r.data[idx] = m
	if r.count < len(r.data) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.data)
	}
}

// Full reports whether the buffer holds a full capacity's worth of
// samples.
func (r *ringBuffer) Full() bool {
	return r.count == len(r.data)
}

// At returns the i-th oldest sample (0 is the oldest).
func (r *ringBuffer) At(i int) types.Measurement {
	return r.data[(r.head+i)%len(r.data)]
}

// Len returns the number of valid samples currently stored.
func (r *ringBuffer) Len() int {
	return r.count
}
