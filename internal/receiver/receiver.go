package receiver

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/errors"
	"github.com/tphakala/pcmcast-go/internal/logging"
	"github.com/tphakala/pcmcast-go/internal/observability/metrics"
)

// sourceLabel is the metric label for the single UDP stream source.
const sourceLabel = "udp"

// readDeadline bounds each socket read so shutdown is prompt.
const readDeadline = 500 * time.Millisecond

// SinkFunc receives the PCM payload of each valid datagram.
type SinkFunc func(p []byte)

// Receiver listens for PCM datagrams and hands valid payloads to a sink.
// When the configured group address is multicast it joins the group.
type Receiver struct {
	settings *conf.Settings
	sink     SinkFunc
	metrics  *metrics.ReceiverMetrics

	conn *net.UDPConn

	lastMismatch Format // last mismatching format, to log changes once
}

// New creates a Receiver delivering payloads to sink. metrics may be nil.
func New(settings *conf.Settings, sink SinkFunc, m *metrics.ReceiverMetrics) *Receiver {
	return &Receiver{
		settings: settings,
		sink:     sink,
		metrics:  m,
	}
}

// Start binds the UDP socket, joins the multicast group if one is
// configured, and runs the receive loop in a goroutine until the quit
// channel closes. Bind and join failures are returned synchronously.
func (r *Receiver) Start(wg *sync.WaitGroup, quitChan <-chan struct{}) error {
	log := logging.ForService("receiver")

	group := net.ParseIP(r.settings.Stream.Group)
	listenIP := net.IPv4zero
	if group != nil && !group.IsMulticast() {
		listenIP = group
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: listenIP, Port: r.settings.Stream.Port})
	if err != nil {
		return errors.New(err).
			Component("receiver").
			Category(errors.CategoryNetwork).
			Context("operation", "listen_udp").
			Context("port", r.settings.Stream.Port).
			Build()
	}

	if group != nil && group.IsMulticast() {
		p := ipv4.NewPacketConn(conn)
		if err := p.JoinGroup(nil, &net.UDPAddr{IP: group}); err != nil {
			conn.Close()
			return errors.New(err).
				Component("receiver").
				Category(errors.CategoryNetwork).
				Context("operation", "join_group").
				Context("group", r.settings.Stream.Group).
				Build()
		}
		log.Info("joined multicast group", "group", r.settings.Stream.Group, "port", r.settings.Stream.Port)
	} else {
		log.Info("listening for stream", "address", listenIP.String(), "port", r.settings.Stream.Port)
	}

	r.conn = conn

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer conn.Close()
		r.receiveLoop(quitChan, log)
	}()

	return nil
}

// Addr returns the bound socket address, nil before Start.
func (r *Receiver) Addr() net.Addr {
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

func (r *Receiver) receiveLoop(quitChan <-chan struct{}, log *slog.Logger) {
	buf := make([]byte, conf.MaxDatagramSize)

	for {
		select {
		case <-quitChan:
			return
		default:
		}

		if err := r.conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
			log.Warn("failed to set read deadline", "error", err)
		}

		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				continue
			}
			select {
			case <-quitChan:
				return
			default:
			}
			if r.metrics != nil {
				r.metrics.RecordReceiveError(sourceLabel)
			}
			log.Warn("socket read failed", "error", err)
			continue
		}

		format, payload, err := ParseHeader(buf[:n])
		if err != nil {
			if r.metrics != nil {
				r.metrics.RecordMalformed(sourceLabel)
			}
			continue
		}

		// No format negotiation and no sample rate conversion: payloads in
		// any other format than the fixed output format are dropped.
		if !format.Matches(conf.SampleRate, conf.BitDepth, conf.NumChannels) {
			if r.metrics != nil {
				r.metrics.RecordFormatMismatch(sourceLabel)
			}
			if format != r.lastMismatch {
				r.lastMismatch = format
				log.Warn("dropping stream with unsupported format",
					"sample_rate", format.SampleRate,
					"bit_depth", format.BitDepth,
					"channels", format.Channels)
			}
			continue
		}

		if len(payload) == 0 {
			continue
		}

		if r.metrics != nil {
			r.metrics.RecordDatagram(sourceLabel, len(payload))
		}
		r.sink(payload)
	}
}
