package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSetsMetadata(t *testing.T) {
	t.Parallel()

	err := Newf("device %s vanished", "hw:0").
		Component("myaudio").
		Category(CategoryAudioDevice).
		Context("operation", "start_device").
		Build()

	assert.Equal(t, "device hw:0 vanished", err.Error())
	assert.Equal(t, "myaudio", err.GetComponent())
	assert.Equal(t, string(CategoryAudioDevice), err.GetCategory())
	assert.Equal(t, "start_device", err.GetContext()["operation"])
	assert.WithinDuration(t, time.Now(), err.GetTimestamp(), time.Second)
}

func TestDefaultCategoryIsGeneric(t *testing.T) {
	t.Parallel()

	err := Newf("something").Build()
	assert.Equal(t, string(CategoryGeneric), err.GetCategory())
}

func TestUnwrapPreservesOriginal(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("socket closed")
	wrapped := New(fmt.Errorf("receive failed: %w", base)).
		Category(CategoryNetwork).
		Build()

	assert.True(t, Is(wrapped, base))
	require.NotNil(t, Unwrap(wrapped))
}

func TestIsMatchesByCategory(t *testing.T) {
	t.Parallel()

	a := Newf("first").Category(CategoryBuffer).Build()
	b := Newf("second").Category(CategoryBuffer).Build()
	c := Newf("third").Category(CategoryNetwork).Build()

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
}

func TestTimingContext(t *testing.T) {
	t.Parallel()

	err := Newf("slow").
		Timing("fill_block", 1500*time.Millisecond).
		Build()

	ctx := err.GetContext()
	assert.Equal(t, "fill_block", ctx["operation"])
	assert.Equal(t, int64(1500), ctx["duration_ms"])
}

func TestContextCopyIsIsolated(t *testing.T) {
	t.Parallel()

	err := Newf("x").Context("key", "value").Build()
	ctx := err.GetContext()
	ctx["key"] = "mutated"

	assert.Equal(t, "value", err.GetContext()["key"])
}
