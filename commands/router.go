package commands

import (
	"context"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"

	"Nocturne/player"
	"Nocturne/resolver"
)

// Router maps parsed prefix commands onto playback operations for the
// issuing guild.
type Router struct {
	registry *player.Registry
	resolver resolver.Resolver
}

func NewRouter(registry *player.Registry, res resolver.Resolver) *Router {
	return &Router{registry: registry, resolver: res}
}

// Dispatch routes one parsed command. Unrecognized commands are ignored.
func (r *Router) Dispatch(s *discordgo.Session, m *discordgo.MessageCreate, cmd string, args []string) {
	handler, ok := map[string]func(*discordgo.Session, *discordgo.MessageCreate, []string){
		"play":       r.play,
		"stop":       r.stop,
		"skip":       r.skip,
		"queue":      r.listQueue,
		"nowplaying": r.nowPlaying,
		"np":         r.nowPlaying,
	}[cmd]
	if !ok {
		return
	}

	ctx := context.WithValue(context.Background(), log.Key, log.Fields{
		"guild_id":   m.GuildID,
		"channel_id": m.ChannelID,
		"user":       m.Author.Username,
		"command":    cmd,
	})
	log.WithContext(ctx).Info("Invoking prefix command")

	handler(s, m, args)
}
