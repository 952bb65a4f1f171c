package myaudio

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillEmptyBufferReturnsSilence(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 16)
	dst := []byte{0xff, 0xff, 0xff, 0xff}

	copied := sb.Fill(dst)

	assert.Equal(t, 0, copied, "empty buffer should deliver no real bytes")
	assert.Equal(t, []byte{0, 0, 0, 0}, dst, "block should be full silence")
	assert.Equal(t, uint64(4), sb.UnderrunBytes())
}

func TestWriteThenPartialFill(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 16)
	sb.Write([]byte{1, 2, 3, 4, 5})

	dst := make([]byte, 3)
	copied := sb.Fill(dst)

	assert.Equal(t, 3, copied)
	assert.Equal(t, []byte{1, 2, 3}, dst)
	assert.Equal(t, 2, sb.Available(), "two unread bytes should remain")
}

func TestFillPadsShortfallWithSilence(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 16)
	sb.Write([]byte{1, 2, 3})

	dst := []byte{9, 9, 9, 9, 9}
	copied := sb.Fill(dst)

	assert.Equal(t, 3, copied)
	assert.Equal(t, []byte{1, 2, 3, 0, 0}, dst, "trailing bytes should be zero")

	// No silence bleed: the next write is delivered exactly.
	sb.Write([]byte{4, 5, 6, 7})
	dst = make([]byte, 4)
	copied = sb.Fill(dst)

	assert.Equal(t, 4, copied)
	assert.Equal(t, []byte{4, 5, 6, 7}, dst)
}

func TestBlocksAreAlwaysFullSize(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 32)
	dst := make([]byte, 8)

	// Vary availability across pulls: 0, less than, equal to and more
	// than the block size. Every pull must populate the whole block.
	writes := [][]byte{nil, {1, 2, 3}, {4, 5, 6, 7, 8, 9, 10, 11}, {12, 13, 14, 15, 16, 17, 18, 19, 20, 21}}
	for _, w := range writes {
		sb.Write(w)
		for i := range dst {
			dst[i] = 0xaa
		}
		copied := sb.Fill(dst)
		require.LessOrEqual(t, copied, len(dst))
		for i := copied; i < len(dst); i++ {
			assert.Zero(t, dst[i], "byte %d past the real data should be silence", i)
		}
	}
}

func TestOverrunOverwritesOldest(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 10)
	sb.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Zero(t, sb.OverrunBytes())

	// 16 bytes total into a 10 byte ring: the writer keeps appending and
	// laps the unread region.
	sb.Write([]byte{9, 10, 11, 12, 13, 14, 15, 16})
	assert.NotZero(t, sb.OverrunBytes(), "overrun should be counted")

	avail := sb.Available()
	assert.GreaterOrEqual(t, avail, 0)
	assert.Less(t, avail, sb.Capacity())

	// The readable region after the overwrite is the newest run that the
	// cursors still delimit, in write order, with no stale bytes.
	dst := make([]byte, avail)
	copied := sb.Fill(dst)
	require.Equal(t, avail, copied)
	assert.Equal(t, []byte{11, 12, 13, 14, 15, 16}, dst)
}

func TestFillAcrossWrapPreservesOrder(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 8)
	sb.Write([]byte{1, 2, 3, 4, 5})

	dst := make([]byte, 4)
	require.Equal(t, 4, sb.Fill(dst))
	require.Equal(t, []byte{1, 2, 3, 4}, dst)

	// End cursor wraps through the physical end of the array.
	sb.Write([]byte{6, 7, 8, 9, 10})

	dst = make([]byte, 6)
	copied := sb.Fill(dst)

	assert.Equal(t, 6, copied)
	assert.Equal(t, []byte{5, 6, 7, 8, 9, 10}, dst, "bytes must come back in write order across the wrap")
}

func TestCursorNormalizationAfterExactDrain(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 8)
	sb.Write([]byte{1, 2, 3, 4, 5})

	dst := make([]byte, 5)
	require.Equal(t, 5, sb.Fill(dst))

	// Fill the tail exactly to the physical end of the array.
	sb.Write([]byte{6, 7, 8})

	dst = make([]byte, 3)
	require.Equal(t, 3, sb.Fill(dst))
	require.Equal(t, []byte{6, 7, 8}, dst)

	// Both cursors must collapse to the canonical empty pair, never a
	// start at capacity with end short of it.
	assert.Equal(t, uint32(0), sb.start.Load())
	assert.Equal(t, uint32(0), sb.end.Load())
	assert.Equal(t, 0, sb.Available())
}

func TestAvailableStaysInBounds(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 64)
	dst := make([]byte, 24)
	chunk := make([]byte, 40)
	for i := range chunk {
		chunk[i] = byte(i)
	}

	for i := 0; i < 200; i++ {
		sb.Write(chunk[:1+i%len(chunk)])
		avail := sb.Available()
		require.GreaterOrEqual(t, avail, 0)
		require.Less(t, avail, sb.Capacity())

		sb.Fill(dst[:1+i%len(dst)])
		avail = sb.Available()
		require.GreaterOrEqual(t, avail, 0)
		require.Less(t, avail, sb.Capacity())
	}
}

func TestDefaultCapacityFromLatency(t *testing.T) {
	t.Parallel()

	sb := NewSourceBufferForLatency("test", 200)
	// 44100 Hz * 4 bytes per frame * 0.2 s
	assert.Equal(t, 35280, sb.Capacity())
}

func TestConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	sb := NewSourceBuffer("test", 4096)
	var wg sync.WaitGroup

	// The producer respects free space here so the two sides touch
	// disjoint regions of the array, as in normal paced operation.
	wg.Add(2)
	go func() {
		defer wg.Done()
		chunk := make([]byte, 320)
		for i := 0; i < 500; i++ {
			for sb.Capacity()-1-sb.Available() < len(chunk) {
				runtime.Gosched()
			}
			sb.Write(chunk)
		}
	}()
	go func() {
		defer wg.Done()
		dst := make([]byte, 512)
		total := 0
		for total < 500*320 {
			copied := sb.Fill(dst)
			if copied > len(dst) {
				t.Errorf("Fill reported %d copied bytes for a %d byte block", copied, len(dst))
				return
			}
			total += copied
			runtime.Gosched()
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, sb.Available(), "consumer should have drained every written byte")
	assert.Zero(t, sb.OverrunBytes(), "paced producer should never overrun")
}
