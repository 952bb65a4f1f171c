package myaudio

import (
	stderrors "errors"
)

// ErrPlaybackRestart is returned by PlaybackAudio when the device asked for
// a full rebuild after a failed in-place restart. The orchestrator responds
// by launching a fresh playback loop.
var ErrPlaybackRestart = stderrors.New("playback device restart requested")
