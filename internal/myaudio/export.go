package myaudio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/errors"
	"github.com/tphakala/pcmcast-go/internal/logging"
)

// StreamExporter tees the received PCM stream to timestamped WAV segment
// files. Ingest hands it byte chunks through a buffered channel so disk
// writes never delay the network path; chunks are dropped when the writer
// falls behind.
type StreamExporter struct {
	path         string
	segmentBytes int
	chunks       chan []byte
}

// NewStreamExporter creates an exporter writing WAV segments of the given
// duration into path.
func NewStreamExporter(path string, segmentSeconds int) *StreamExporter {
	return &StreamExporter{
		path:         path,
		segmentBytes: segmentSeconds * conf.BytesPerSecond,
		chunks:       make(chan []byte, 64),
	}
}

// Write queues a PCM chunk for export. The chunk is copied; the caller may
// reuse p. Never blocks: when the writer is behind the chunk is dropped.
func (se *StreamExporter) Write(p []byte) {
	chunk := make([]byte, len(p))
	copy(chunk, p)
	select {
	case se.chunks <- chunk:
	default:
		logging.ForService("export").Warn("export writer behind, dropping chunk", "bytes", len(p))
	}
}

// Start runs the writer goroutine until the quit channel closes. Any
// partially accumulated segment is flushed on shutdown.
func (se *StreamExporter) Start(wg *sync.WaitGroup, quitChan <-chan struct{}) {
	log := logging.ForService("export")

	wg.Add(1)
	go func() {
		defer wg.Done()

		var pending []byte
		flush := func() {
			if len(pending) == 0 {
				return
			}
			name := fmt.Sprintf("stream_%s.wav", time.Now().Format("20060102_150405"))
			if err := savePCMDataToWAV(filepath.Join(se.path, name), pending); err != nil {
				log.Error("failed to write WAV segment", "file", name, "error", err)
			} else {
				log.Info("wrote WAV segment", "file", name, "bytes", len(pending))
			}
			pending = nil
		}

		for {
			select {
			case chunk := <-se.chunks:
				pending = append(pending, chunk...)
				if len(pending) >= se.segmentBytes {
					flush()
				}
			case <-quitChan:
				flush()
				return
			}
		}
	}()
}

// savePCMDataToWAV saves the given PCM data as a WAV file at the specified filePath.
func savePCMDataToWAV(filePath string, pcmData []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return errors.New(err).
			Component("myaudio").
			Category(errors.CategoryFileIO).
			Context("operation", "create_export_dir").
			Build()
	}

	outFile, err := os.Create(filePath)
	if err != nil {
		return errors.New(err).
			Component("myaudio").
			Category(errors.CategoryFileIO).
			Context("operation", "create_wav").
			Build()
	}
	defer outFile.Close() //nolint:errcheck

	enc := wav.NewEncoder(outFile, conf.SampleRate, conf.BitDepth, conf.NumChannels, 1)

	intSamples := byteSliceToInts(pcmData)

	if err := enc.Write(&audio.IntBuffer{
		Data:   intSamples,
		Format: &audio.Format{SampleRate: conf.SampleRate, NumChannels: conf.NumChannels},
	}); err != nil {
		return errors.New(err).
			Component("myaudio").
			Category(errors.CategoryFileIO).
			Context("operation", "encode_wav").
			Build()
	}

	return enc.Close()
}

// byteSliceToInts converts a byte slice to a slice of integers.
// Each pair of bytes is treated as a single 16-bit sample.
func byteSliceToInts(pcmData []byte) []int {
	samples := make([]int, 0, len(pcmData)/2)
	buf := bytes.NewBuffer(pcmData)

	for {
		var sample int16
		if err := binary.Read(buf, binary.LittleEndian, &sample); err != nil {
			break
		}
		samples = append(samples, int(sample))
	}

	return samples
}
