// Package player wires the receiver, the source buffer and the playback
// device into a running pipeline.
package player

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/errors"
	"github.com/tphakala/pcmcast-go/internal/logging"
	"github.com/tphakala/pcmcast-go/internal/myaudio"
	"github.com/tphakala/pcmcast-go/internal/observability"
	"github.com/tphakala/pcmcast-go/internal/receiver"
)

// Status is the payload of the telemetry status endpoint.
type Status struct {
	RunID                string  `json:"run_id"`
	UptimeSeconds        float64 `json:"uptime_seconds"`
	BufferCapacityBytes  int     `json:"buffer_capacity_bytes"`
	BufferAvailableBytes int     `json:"buffer_available_bytes"`
	OverrunBytes         uint64  `json:"overrun_bytes"`
	UnderrunBytes        uint64  `json:"underrun_bytes"`
}

// RunPlayer runs the full pipeline until a termination signal arrives or
// playback fails beyond recovery. Network ingest and device playback share
// only the source buffer; a playback rebuild never interrupts ingest.
func RunPlayer(settings *conf.Settings) error {
	log := logging.ForService("player")
	runID := uuid.New().String()
	startTime := time.Now()

	log.Info("starting stream player", "run_id", runID,
		"latency_ms", settings.Audio.MaxLatencyMs,
		"group", settings.Stream.Group, "port", settings.Stream.Port)

	m, err := observability.NewMetrics()
	if err != nil {
		return err
	}
	myaudio.SetBufferMetrics(m.Buffer)

	// The latency setting sizes the ring: bytes per second of the fixed
	// stream format times the configured slack.
	buffer := myaudio.NewSourceBufferForLatency("udp", settings.Audio.MaxLatencyMs)

	var wg sync.WaitGroup
	quitChan := make(chan struct{})
	restartChan := make(chan struct{})

	sink := receiver.SinkFunc(buffer.Write)
	if settings.Export.Enabled {
		exporter := myaudio.NewStreamExporter(settings.Export.Path, settings.Export.SegmentSeconds)
		exporter.Start(&wg, quitChan)
		sink = func(p []byte) {
			buffer.Write(p)
			exporter.Write(p)
		}
	}

	rcv := receiver.New(settings, sink, m.Receiver)
	if err := rcv.Start(&wg, quitChan); err != nil {
		close(quitChan)
		wg.Wait()
		return err
	}

	if endpoint := observability.NewEndpoint(settings, m, func() any {
		return Status{
			RunID:                runID,
			UptimeSeconds:        time.Since(startTime).Seconds(),
			BufferCapacityBytes:  buffer.Capacity(),
			BufferAvailableBytes: buffer.Available(),
			OverrunBytes:         buffer.OverrunBytes(),
			UnderrunBytes:        buffer.UnderrunBytes(),
		}
	}); endpoint != nil {
		endpoint.Start(&wg, quitChan)
	}

	playbackResult := make(chan error, 1)
	startPlayback := func() {
		wg.Add(1)
		go func() {
			playbackResult <- myaudio.PlaybackAudio(settings, buffer, &wg, quitChan, restartChan)
		}()
	}
	startPlayback()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	for {
		select {
		case sig := <-sigChan:
			log.Info("received signal, shutting down", "signal", sig.String())
			close(quitChan)
			wg.Wait()
			return nil
		case err := <-playbackResult:
			switch {
			case err == nil:
				// Quit signal stopped playback, shutdown is under way
				close(quitChan)
				wg.Wait()
				return nil
			case errors.Is(err, myaudio.ErrPlaybackRestart):
				log.Warn("rebuilding playback device", "run_id", runID)
				time.Sleep(time.Second)
				startPlayback()
			default:
				log.Error("playback failed", "error", err)
				close(quitChan)
				wg.Wait()
				return err
			}
		}
	}
}
