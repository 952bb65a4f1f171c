package myaudio

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pcmcast-go/internal/conf"
)

func TestSavePCMDataToWAV(t *testing.T) {
	t.Parallel()

	// Two frames of 16-bit stereo: L=100 R=-100, L=32000 R=-32000.
	pcm := []byte{
		100, 0, 156, 255,
		0, 125, 0, 131,
	}

	path := filepath.Join(t.TempDir(), "segments", "test.wav")
	require.NoError(t, savePCMDataToWAV(path, pcm))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, conf.SampleRate, buf.Format.SampleRate)
	assert.Equal(t, conf.NumChannels, buf.Format.NumChannels)
	assert.Equal(t, []int{100, -100, 32000, -32000}, buf.Data)
}

func TestByteSliceToInts(t *testing.T) {
	t.Parallel()

	samples := byteSliceToInts([]byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80})
	assert.Equal(t, []int{1, -1, -32768}, samples)

	// A trailing odd byte is ignored.
	samples = byteSliceToInts([]byte{0x01, 0x00, 0x02})
	assert.Equal(t, []int{1}, samples)
}

func TestStreamExporterWritesSegments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	se := NewStreamExporter(dir, 1)
	// Shrink the segment threshold so the test does not need a second of audio.
	se.segmentBytes = 8

	var wgroup sync.WaitGroup
	quitChan := make(chan struct{})
	se.Start(&wgroup, quitChan)

	se.Write([]byte{1, 0, 2, 0})
	se.Write([]byte{3, 0, 4, 0})

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		return err == nil && len(entries) == 1
	}, 5*time.Second, 50*time.Millisecond, "segment file should appear")

	close(quitChan)
	wgroup.Wait()
}
