package handlers

import (
	"github.com/bwmarrin/discordgo"

	"Nocturne/audit"
	"Nocturne/commands"
)

// Configure sets the gateway intents and registers every event handler:
// the prefix command dispatcher and the audit relays.
func Configure(s *discordgo.Session, router *commands.Router, sink *audit.Logger) {
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers

	h := &Handlers{router: router}
	s.AddHandler(h.MessageCreate)

	a := &Auditor{sink: sink}
	s.AddHandler(a.MemberAdd)
	s.AddHandler(a.MemberRemove)
	s.AddHandler(a.MemberUpdate)
	s.AddHandler(a.VoiceStateUpdate)
	s.AddHandler(a.RoleCreate)
	s.AddHandler(a.RoleUpdate)
	s.AddHandler(a.RoleDelete)
	s.AddHandler(a.MessageDelete)
	s.AddHandler(a.MessageUpdate)
}

// Handlers routes inbound messages to the command router.
type Handlers struct {
	router *commands.Router
}
