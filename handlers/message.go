package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// MessageCreate handles prefixed text commands. Anything that isn't a
// prefixed guild message from a human is ignored.
func (h *Handlers) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	if m.GuildID == "" {
		return
	}

	cmd, args, ok := ParseCommand(m.Content, viper.GetString("prefix"))
	if !ok {
		return
	}

	if cmd == "help" {
		HelpEmbedding(s, m)
		return
	}
	h.router.Dispatch(s, m, cmd, args)
}

// ParseCommand splits a prefixed message into a lowercase command name and
// its arguments. ok is false when the message carries no command.
func ParseCommand(content, prefix string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}
