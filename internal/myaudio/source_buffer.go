// this file defines the ring buffer between network ingest and device playback
package myaudio

import (
	"sync/atomic"

	"github.com/tphakala/pcmcast-go/internal/conf"
)

// SourceBuffer is a fixed-capacity circular byte buffer holding PCM audio
// received from the network until the playback device pulls it.
//
// The region [start, end) modulo capacity holds valid unread bytes; start ==
// end means empty. One producer appends via Write, one consumer drains via
// Fill. The producer mutates end, the consumer mutates start, each reads the
// other's cursor through atomic loads so neither side ever observes a torn
// value. Fill runs on the device's real-time callback and never blocks.
type SourceBuffer struct {
	name     string
	data     []byte
	capacity uint32
	start    atomic.Uint32 // offset of the oldest unread byte
	end      atomic.Uint32 // offset one past the newest written byte

	overrunBytes  atomic.Uint64 // unread bytes overwritten by the producer
	underrunBytes atomic.Uint64 // silence bytes padded for the consumer
}

// NewSourceBuffer creates a SourceBuffer with the given capacity in bytes.
// The name is used as the source label on buffer metrics.
func NewSourceBuffer(name string, capacity int) *SourceBuffer {
	if capacity <= 0 {
		capacity = conf.BytesPerSecond * conf.DefaultMaxLatencyMs / 1000
	}
	return &SourceBuffer{
		name:     name,
		data:     make([]byte, capacity),
		capacity: uint32(capacity),
	}
}

// NewSourceBufferForLatency creates a SourceBuffer sized to hold the given
// maximum latency in milliseconds of audio at the fixed stream byte rate.
func NewSourceBufferForLatency(name string, latencyMs int) *SourceBuffer {
	return NewSourceBuffer(name, conf.BytesPerSecond*latencyMs/1000)
}

// Capacity returns the buffer capacity in bytes.
func (sb *SourceBuffer) Capacity() int {
	return int(sb.capacity)
}

// Available returns the number of valid unread bytes, always in [0, capacity).
func (sb *SourceBuffer) Available() int {
	end := sb.end.Load()
	start := sb.start.Load()
	return int((sb.capacity + end - start) % sb.capacity)
}

// OverrunBytes returns the total number of unread bytes overwritten so far.
func (sb *SourceBuffer) OverrunBytes() uint64 {
	return sb.overrunBytes.Load()
}

// UnderrunBytes returns the total number of silence bytes padded so far.
func (sb *SourceBuffer) UnderrunBytes() uint64 {
	return sb.underrunBytes.Load()
}

// Write appends PCM bytes at the end cursor, wrapping through the physical
// end of the array as needed. There is no backpressure: when the producer
// outruns the consumer the oldest unread bytes are overwritten. The overrun
// is counted but the policy stays overwrite-oldest so ingestion never stalls.
func (sb *SourceBuffer) Write(p []byte) {
	if len(p) == 0 {
		return
	}

	// Free space is capacity-1: start == end must stay readable as empty.
	if free := int(sb.capacity) - 1 - sb.Available(); len(p) > free {
		overrun := uint64(len(p) - free)
		sb.overrunBytes.Add(overrun)
		if m := getBufferMetrics(); m != nil {
			m.RecordOverrun(sb.name, overrun)
		}
	}

	written := 0
	for written < len(p) {
		end := sb.end.Load()
		if end == sb.capacity {
			end = 0
		}
		n := copy(sb.data[end:], p[written:])
		written += n
		sb.end.Store(end + uint32(n))
	}

	if m := getBufferMetrics(); m != nil {
		m.RecordWrite(sb.name, len(p))
		m.UpdateUtilization(sb.name, sb.Available(), int(sb.capacity))
	}
}

// copyOut copies valid bytes from the start cursor up to limit into dst,
// advances start, and returns the number of bytes copied. Called twice per
// pull: once for the run up to the physical end of the array, once for the
// wrapped region at its front.
func (sb *SourceBuffer) copyOut(dst []byte, limit uint32) int {
	start := sb.start.Load()
	if start >= limit || len(dst) == 0 {
		return 0
	}
	n := copy(dst, sb.data[start:limit])
	sb.start.Store(start + uint32(n))
	return n
}

// Fill populates dst entirely on every call: available bytes first, zero
// padding for any shortfall. It is the device pull callback and must never
// block and never return a partial block.
//
// When a buffer is enqueued the device schedules it for the time slot right
// after the previous one whether or not real data arrived. A short block
// would advance the device timeline without consuming input and later data
// would land in slots already passed, so the gap is filled with silence to
// keep the timeline aligned with the producer.
func (sb *SourceBuffer) Fill(dst []byte) int {
	end := sb.end.Load()
	start := sb.start.Load()

	// Run from start to end, or to the physical end of the array if the
	// valid region wraps.
	limit := end
	if start > end {
		limit = sb.capacity
	}
	copied := sb.copyOut(dst, limit)

	// Collapse the cursor pair back to the canonical empty state (0, 0)
	// rather than leaving (0, capacity), which would read as full.
	if sb.start.Load() == sb.capacity {
		sb.start.Store(0)
		if end == sb.capacity {
			sb.end.Store(0)
			end = 0
		}
	}

	if copied < len(dst) {
		copied += sb.copyOut(dst[copied:], end)
	}

	if copied < len(dst) {
		padding := len(dst) - copied
		clear(dst[copied:])
		sb.underrunBytes.Add(uint64(padding))
		if m := getBufferMetrics(); m != nil {
			m.RecordUnderrun(sb.name, uint64(padding))
		}
	}

	if m := getBufferMetrics(); m != nil {
		m.RecordRead(sb.name, copied)
	}
	return copied
}
