package handlers

import (
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// HelpEmbedding creates the embedding for the help menu
func HelpEmbedding(s *discordgo.Session, m *discordgo.MessageCreate) {
	prefix := viper.GetString("prefix")
	botAvatarURL := s.State.User.AvatarURL("64")
	helpEmbed := &discordgo.MessageEmbed{
		Title: "Nocturne Help",
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: botAvatarURL,
		},
		Color: viper.GetInt("theme"),
		Fields: []*discordgo.MessageEmbedField{
			{Name: prefix + "play <url or name>", Value: "Queue a song and start playback."},
			{Name: prefix + "skip", Value: "Skip the current song."},
			{Name: prefix + "stop", Value: "Stop playback and clear the queue."},
			{Name: prefix + "queue", Value: "Show the song queue."},
			{Name: prefix + "nowplaying", Value: "Show the song that's now playing."},
		},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, helpEmbed)
}
