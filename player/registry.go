package player

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Strum355/log"
)

// Opener turns a track's locator into a playable audio stream.
type Opener interface {
	Open(ctx context.Context, sourceRef string) (io.ReadCloser, error)
}

// guildPlayer holds the playback state for one guild. Every transition runs
// under mu, so no two transitions for the same guild interleave. gen is
// bumped whenever the session or queue is torn down; loops and timers tagged
// with an older generation discard their results instead of applying them.
type guildPlayer struct {
	mu         sync.Mutex
	tracks     []*Track
	nowPlaying *Track
	session    *Session
	playing    bool
	gen        uint64
}

// Registry owns the per-guild playback state. Guilds never share state, so
// operations on different guilds only contend on the registry map itself.
type Registry struct {
	mu      sync.Mutex
	players map[string]*guildPlayer

	dialer      Dialer
	opener      Opener
	idleTimeout time.Duration
}

// NewRegistry creates an empty registry. idleTimeout is how long a session
// sits idle after the queue drains before its voice connection is reclaimed.
func NewRegistry(dialer Dialer, opener Opener, idleTimeout time.Duration) *Registry {
	return &Registry{
		players:     make(map[string]*guildPlayer),
		dialer:      dialer,
		opener:      opener,
		idleTimeout: idleTimeout,
	}
}

// get returns the guild's player, creating it on first use.
func (r *Registry) get(guildID string) *guildPlayer {
	r.mu.Lock()
	defer r.mu.Unlock()
	gp, ok := r.players[guildID]
	if !ok {
		gp = &guildPlayer{}
		r.players[guildID] = gp
	}
	return gp
}

// lookup returns the guild's player without creating one.
func (r *Registry) lookup(guildID string) (*guildPlayer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gp, ok := r.players[guildID]
	return gp, ok
}

// Enqueue appends a track to the guild's queue and returns its 1-based
// position. The guild's state entry is created if absent.
func (r *Registry) Enqueue(guildID string, t Track) int {
	gp := r.get(guildID)
	gp.mu.Lock()
	defer gp.mu.Unlock()
	gp.tracks = append(gp.tracks, &t)
	return len(gp.tracks)
}

// Queue returns a snapshot of the guild's queue in play order.
func (r *Registry) Queue(guildID string) []Track {
	gp, ok := r.lookup(guildID)
	if !ok {
		return nil
	}
	gp.mu.Lock()
	defer gp.mu.Unlock()
	out := make([]Track, len(gp.tracks))
	for i, t := range gp.tracks {
		out[i] = *t
	}
	return out
}

// NowPlaying returns the track currently streaming, if any.
func (r *Registry) NowPlaying(guildID string) (Track, bool) {
	gp, ok := r.lookup(guildID)
	if !ok {
		return Track{}, false
	}
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if !gp.playing || gp.nowPlaying == nil {
		return Track{}, false
	}
	return *gp.nowPlaying, true
}

// IsPlaying reports whether the guild is actively streaming a track.
func (r *Registry) IsPlaying(guildID string) bool {
	gp, ok := r.lookup(guildID)
	if !ok {
		return false
	}
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return gp.playing
}

// Clear empties the guild's queue and aborts the current stream without
// touching the voice connection. In-flight resolutions for the cleared
// queue are discarded.
func (r *Registry) Clear(guildID string) {
	gp, ok := r.lookup(guildID)
	if !ok {
		return
	}
	gp.mu.Lock()
	gp.gen++
	gp.tracks = nil
	gp.nowPlaying = nil
	gp.playing = false
	session := gp.session
	gp.mu.Unlock()
	if session != nil {
		session.Skip()
	}
}

// Connect joins the given voice channel and attaches a session to the guild.
// Returns ErrAlreadyConnected if a live session exists.
func (r *Registry) Connect(guildID, channelID string) error {
	gp := r.get(guildID)
	gp.mu.Lock()
	if gp.session != nil {
		gp.mu.Unlock()
		return ErrAlreadyConnected
	}
	gp.mu.Unlock()

	// Joining is network bound, keep it outside the lock.
	voice, err := r.dialer.Join(guildID, channelID)
	if err != nil {
		return err
	}

	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.session != nil {
		// Lost the attach race, give the spare connection back.
		go voice.Disconnect()
		return ErrAlreadyConnected
	}
	gp.session = newSession(voice)
	return nil
}

// Disconnect destroys the guild's session if one exists. Idempotent.
func (r *Registry) Disconnect(guildID string) {
	gp, ok := r.lookup(guildID)
	if !ok {
		return
	}
	gp.mu.Lock()
	gp.gen++
	gp.playing = false
	session := gp.session
	gp.session = nil
	gp.mu.Unlock()
	if session != nil {
		session.Destroy()
	}
}

// Play ensures the guild has a session on the given channel and starts the
// playback loop if it isn't already running.
func (r *Registry) Play(guildID, channelID string) error {
	if err := r.Connect(guildID, channelID); err != nil && !errors.Is(err, ErrAlreadyConnected) {
		return err
	}

	gp := r.get(guildID)
	gp.mu.Lock()
	if gp.playing || gp.session == nil {
		gp.mu.Unlock()
		return nil
	}
	gp.playing = true
	gen := gp.gen
	gp.mu.Unlock()

	go r.playLoop(guildID, gp, gen)
	return nil
}

// Skip aborts the stream currently playing, advancing the queue through the
// ordinary completion path. Returns ErrNotPlaying when idle.
func (r *Registry) Skip(guildID string) error {
	gp, ok := r.lookup(guildID)
	if !ok {
		return ErrNotPlaying
	}
	gp.mu.Lock()
	if !gp.playing || gp.session == nil {
		gp.mu.Unlock()
		return ErrNotPlaying
	}
	session := gp.session
	gp.mu.Unlock()
	session.Skip()
	return nil
}

// Stop aborts playback, empties the queue and destroys the session.
// Idempotent: stopping an already stopped guild is a no-op.
func (r *Registry) Stop(guildID string) {
	gp, ok := r.lookup(guildID)
	if !ok {
		return
	}
	gp.mu.Lock()
	gp.gen++
	gp.tracks = nil
	gp.nowPlaying = nil
	gp.playing = false
	session := gp.session
	gp.session = nil
	gp.mu.Unlock()
	if session != nil {
		session.Destroy()
	}
}

// StopAll tears down every guild's playback state. Used during shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		r.Stop(id)
	}
}

// playLoop drains the guild's queue one track at a time. It runs while its
// generation matches the guild's: a stop, clear or disconnect bumps the
// generation and the loop exits, discarding any in-flight result.
func (r *Registry) playLoop(guildID string, gp *guildPlayer, gen uint64) {
	for {
		gp.mu.Lock()
		if gp.gen != gen {
			gp.mu.Unlock()
			return
		}
		if len(gp.tracks) == 0 {
			gp.playing = false
			gp.nowPlaying = nil
			armed := gp.session != nil
			gp.mu.Unlock()
			if armed {
				r.armIdleReclaim(guildID, gp, gen)
			}
			return
		}
		next := gp.tracks[0]
		gp.tracks = gp.tracks[1:]
		gp.nowPlaying = next
		session := gp.session
		gp.mu.Unlock()

		if session == nil {
			gp.mu.Lock()
			if gp.gen == gen {
				gp.playing = false
				gp.nowPlaying = nil
			}
			gp.mu.Unlock()
			return
		}

		// The stop channel goes in before the open so a skip arriving while
		// resolution is in flight lands on this track, not the previous one.
		stop, err := session.prepare()
		if err != nil {
			return
		}

		stream, err := r.opener.Open(context.Background(), next.SourceRef)

		gp.mu.Lock()
		stale := gp.gen != gen
		gp.mu.Unlock()
		if stale {
			if stream != nil {
				stream.Close()
			}
			return
		}

		if err != nil {
			// An unplayable track never stalls the queue, move on.
			log.WithError(err).Error("Skipping unplayable track " + next.SourceRef)
			continue
		}

		select {
		case <-stop:
			// Skipped during resolution, the stream never starts.
			stream.Close()
			continue
		default:
		}

		if err := session.Play(stream, stop); err != nil {
			log.WithError(err).Error("Playback ended with error for " + next.SourceRef)
		}
	}
}

// armIdleReclaim schedules the voice connection to be released after the
// idle timeout. The timer re-checks live state when it fires, so a timer
// left over from an earlier idle period never destroys an active session.
func (r *Registry) armIdleReclaim(guildID string, gp *guildPlayer, gen uint64) {
	time.AfterFunc(r.idleTimeout, func() {
		gp.mu.Lock()
		if gp.playing || gp.gen != gen || gp.session == nil {
			gp.mu.Unlock()
			return
		}
		gp.gen++
		session := gp.session
		gp.session = nil
		gp.mu.Unlock()

		log.Info("Reclaiming idle voice connection for guild " + guildID)
		session.Destroy()
	})
}
