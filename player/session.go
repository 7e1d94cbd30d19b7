package player

import (
	"io"
	"sync"

	"github.com/Strum355/log"
)

// Voice is one live voice-channel connection capable of streaming audio.
type Voice interface {
	// Play streams audio until the stream ends or stop is closed.
	Play(stream io.ReadCloser, stop <-chan struct{}) error
	Disconnect() error
}

// Dialer joins voice channels on behalf of the bot.
type Dialer interface {
	Join(guildID, channelID string) (Voice, error)
}

// Session binds one voice connection to the playback state of a guild. The
// connection and the streaming state are created and destroyed together.
type Session struct {
	mu     sync.Mutex
	voice  Voice
	stop   chan struct{} // Closes to abort the stream currently playing
	closed bool          // True once the session has been destroyed
}

func newSession(voice Voice) *Session {
	return &Session{voice: voice}
}

// prepare installs a fresh stop channel for the next stream and returns it.
// Installing the channel before the stream is acquired means a skip issued
// while resolution is still in flight closes this channel rather than being
// lost against the previous stream's.
func (s *Session) prepare() (chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrNoActiveSession
	}
	stop := make(chan struct{})
	s.stop = stop
	return stop, nil
}

// Play streams one track to the voice connection, blocking until the stream
// ends, stop is closed, or the session is destroyed. stop must come from
// prepare.
func (s *Session) Play(stream io.ReadCloser, stop chan struct{}) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stream.Close()
		return ErrNoActiveSession
	}
	voice := s.voice
	s.mu.Unlock()

	return voice.Play(stream, stop)
}

// Skip aborts the stream currently playing, if any.
func (s *Session) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Destroy aborts any current stream and tears down the voice connection.
// Safe to call more than once.
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	voice := s.voice
	s.mu.Unlock()

	if err := voice.Disconnect(); err != nil {
		log.WithError(err).Error("Failed to disconnect voice connection")
	}
}
