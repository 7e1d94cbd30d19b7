package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"

	"Nocturne/resolver"
	"Nocturne/utils"
)

// play resolves the query to a track, queues it, and starts playback if the
// guild is idle.
func (r *Router) play(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		reply(s, m, "Give me a song name or link. Example: `"+viper.GetString("prefix")+"play <url or name>`")
		return
	}

	channelID, ok := memberVoiceChannel(s, m.GuildID, m.Author.ID)
	if !ok {
		reply(s, m, "Join a voice channel first 😉")
		return
	}
	if botBusyElsewhere(s, m.GuildID, channelID) {
		reply(s, m, "I'm already in another voice channel 😅")
		return
	}

	query := strings.Join(args, " ")
	track, err := r.resolver.Resolve(context.Background(), query)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			reply(s, m, "Couldn't find anything for that 🔍")
			return
		}
		log.WithError(err).Error("Failed to resolve query: " + query)
		reply(s, m, "Something went wrong resolving that track.")
		return
	}
	track.RequestedBy = m.Author.Username

	position := r.registry.Enqueue(m.GuildID, track)
	if track.Duration > 0 {
		reply(s, m, fmt.Sprintf("🎶 Queued **%s** (`%s`) at position %d", track.Title, utils.FormatDuration(track.Duration), position))
	} else {
		reply(s, m, fmt.Sprintf("🎶 Queued **%s** at position %d", track.Title, position))
	}

	if err := r.registry.Play(m.GuildID, channelID); err != nil {
		log.WithError(err).Error("Failed to start playback in guild " + m.GuildID)
		reply(s, m, "Couldn't join your voice channel.")
	}
}

// stop tears down playback entirely: queue cleared, voice connection
// destroyed. Stopping an idle guild is harmless.
func (r *Router) stop(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	r.registry.Stop(m.GuildID)
	reply(s, m, "⏹️ Playback stopped and queue cleared.")
}

// skip aborts the current track, letting the queue advance.
func (r *Router) skip(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	if err := r.registry.Skip(m.GuildID); err != nil {
		reply(s, m, "Nothing to skip 😶")
		return
	}
	reply(s, m, "⏭️ Skipped")
}

// listQueue renders the guild's queue with 1-based positions.
func (r *Router) listQueue(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	tracks := r.registry.Queue(m.GuildID)
	if len(tracks) == 0 {
		reply(s, m, "The queue is empty.")
		return
	}

	var b strings.Builder
	b.WriteString("🎵 Queue:\n")
	for i, t := range tracks {
		if t.Duration > 0 {
			fmt.Fprintf(&b, "%d. %s (`%s`)\n", i+1, t.Title, utils.FormatDuration(t.Duration))
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, t.Title)
		}
	}
	reply(s, m, b.String())
}

// nowPlaying shows the track currently streaming.
func (r *Router) nowPlaying(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	track, ok := r.registry.NowPlaying(m.GuildID)
	if !ok {
		reply(s, m, "Nothing is playing right now 😶")
		return
	}
	reply(s, m, fmt.Sprintf("🎧 Now playing: **%s** (requested by %s)", track.Title, track.RequestedBy))
}
