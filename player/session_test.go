package player

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionSkipWithoutPlay(t *testing.T) {
	s := newSession(&fakeVoice{})

	assert.NotPanics(t, func() { s.Skip() })
	assert.NotPanics(t, func() { s.Skip() })
}

func TestSessionDestroyTwice(t *testing.T) {
	voice := &fakeVoice{}
	s := newSession(voice)

	s.Destroy()
	s.Destroy() // Should not panic or double close

	assert.True(t, voice.Disconnected())
}

func TestSessionPrepareAfterDestroy(t *testing.T) {
	s := newSession(&fakeVoice{})
	s.Destroy()

	_, err := s.prepare()
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSessionPlayAfterDestroy(t *testing.T) {
	s := newSession(&fakeVoice{})
	stop, err := s.prepare()
	assert.NoError(t, err)
	s.Destroy()

	err = s.Play(io.NopCloser(strings.NewReader("t1")), stop)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSessionSkipBeforePlayClosesPreparedStop(t *testing.T) {
	s := newSession(&fakeVoice{})
	stop, err := s.prepare()
	assert.NoError(t, err)

	s.Skip()

	select {
	case <-stop:
	default:
		t.Fatal("Skip did not close the prepared stop channel")
	}
}

func TestSessionSkipAbortsPlay(t *testing.T) {
	voice := &fakeVoice{blockOn: map[string]bool{"t1": true}}
	s := newSession(voice)
	stop, err := s.prepare()
	assert.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.Play(io.NopCloser(strings.NewReader("t1")), stop)
	}()

	assert.Eventually(t, func() bool { return len(voice.Played()) == 1 }, 2*time.Second, 5*time.Millisecond)
	s.Skip()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not return after Skip")
	}
}

func TestSessionDestroyAbortsPlay(t *testing.T) {
	voice := &fakeVoice{blockOn: map[string]bool{"t1": true}}
	s := newSession(voice)
	stop, err := s.prepare()
	assert.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.Play(io.NopCloser(strings.NewReader("t1")), stop)
	}()

	assert.Eventually(t, func() bool { return len(voice.Played()) == 1 }, 2*time.Second, 5*time.Millisecond)
	s.Destroy()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not return after Destroy")
	}
}
