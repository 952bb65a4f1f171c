// Package myaudio bridges the network-delivered PCM stream to the local
// playback device.
//
// The SourceBuffer ring sits between two independently scheduled flows: the
// UDP receiver appends bytes whenever datagrams arrive, and the miniaudio
// device callback drains a fixed-size block on its own real-time cadence.
// The callback path never blocks and always returns a fully populated block,
// padding with silence on underrun so the device timeline stays aligned with
// the sender.
//
// The package-level metrics instance is set once via SetBufferMetrics
// (sync.Once) and read through a getter guarded by RWMutex, so hot paths can
// record metrics without racing initialization.
package myaudio
