package commands

import (
	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
)

// memberVoiceChannel returns the ID of the voice channel the member is
// currently in, if any.
func memberVoiceChannel(s *discordgo.Session, guildID, userID string) (string, bool) {
	vs, err := s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", false
	}
	return vs.ChannelID, true
}

// botBusyElsewhere reports whether the bot already holds a voice connection
// in a different channel of this guild.
func botBusyElsewhere(s *discordgo.Session, guildID, channelID string) bool {
	vc, ok := s.VoiceConnections[guildID]
	return ok && vc != nil && vc.ChannelID != "" && vc.ChannelID != channelID
}

func reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		log.WithError(err).Error("Failed to send reply")
	}
}
