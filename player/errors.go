package player

import "errors"

var (
	// ErrAlreadyConnected is returned when a guild already has a live voice session.
	ErrAlreadyConnected = errors.New("already connected to a voice channel")

	// ErrNoActiveSession is returned when an operation needs a session that doesn't exist.
	ErrNoActiveSession = errors.New("no active voice session")

	// ErrNotPlaying is returned when an operation requires active playback.
	ErrNotPlaying = errors.New("nothing is playing")
)
