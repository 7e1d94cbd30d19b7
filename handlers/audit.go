package handlers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"Nocturne/audit"
)

// Auditor relays guild activity into the audit log. Every handler is a pure
// event-to-(title, body) mapping handed to the sink, best effort.
type Auditor struct {
	sink *audit.Logger
}

type auditEntry struct {
	title string
	body  string
}

func (a *Auditor) MemberAdd(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	a.sink.Emit(e.GuildID, "Member Joined", fmt.Sprintf("%s joined the server.", e.User.String()))
}

func (a *Auditor) MemberRemove(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
	a.sink.Emit(e.GuildID, "Member Left", fmt.Sprintf("%s left the server.", e.User.String()))
}

func (a *Auditor) VoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	user := "Unknown"
	if e.Member != nil && e.Member.User != nil {
		user = e.Member.User.String()
	}
	name := func(channelID string) string {
		if ch, err := s.State.Channel(channelID); err == nil {
			return ch.Name
		}
		return channelID
	}
	for _, entry := range formatVoiceTransition(user, e.BeforeUpdate, e.VoiceState, name) {
		a.sink.Emit(e.GuildID, entry.title, entry.body)
	}
}

func (a *Auditor) RoleCreate(s *discordgo.Session, e *discordgo.GuildRoleCreate) {
	a.sink.Emit(e.GuildID, "Role Created", fmt.Sprintf("%s was created.", e.Role.Name))
}

func (a *Auditor) RoleUpdate(s *discordgo.Session, e *discordgo.GuildRoleUpdate) {
	a.sink.Emit(e.GuildID, "Role Updated", fmt.Sprintf("%s was updated.", e.Role.Name))
}

func (a *Auditor) RoleDelete(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
	name := e.RoleID
	if role, err := s.State.Role(e.GuildID, e.RoleID); err == nil {
		name = role.Name
	}
	a.sink.Emit(e.GuildID, "Role Deleted", fmt.Sprintf("%s was deleted.", name))
}

func (a *Auditor) MessageDelete(s *discordgo.Session, e *discordgo.MessageDelete) {
	if e.GuildID == "" {
		return
	}
	title, body := formatMessageDelete(e.BeforeDelete, channelName(s, e.ChannelID))
	a.sink.Emit(e.GuildID, title, body)
}

func (a *Auditor) MessageUpdate(s *discordgo.Session, e *discordgo.MessageUpdate) {
	if e.GuildID == "" || e.Author == nil || e.Author.Bot {
		return
	}
	title, body := formatMessageEdit(e.BeforeUpdate, e.Message, channelName(s, e.ChannelID))
	a.sink.Emit(e.GuildID, title, body)
}

func (a *Auditor) MemberUpdate(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	if e.BeforeUpdate == nil {
		return
	}
	added, removed := diffRoles(e.BeforeUpdate.Roles, e.Roles)
	name := func(roleID string) string {
		if role, err := s.State.Role(e.GuildID, roleID); err == nil {
			return role.Name
		}
		return roleID
	}
	if len(added) > 0 {
		a.sink.Emit(e.GuildID, "Roles Granted", fmt.Sprintf("%s was granted: %s", e.User.String(), joinRoleNames(added, name)))
	}
	if len(removed) > 0 {
		a.sink.Emit(e.GuildID, "Roles Revoked", fmt.Sprintf("%s was revoked: %s", e.User.String(), joinRoleNames(removed, name)))
	}
}

// formatVoiceTransition maps a voice-state change to its audit entries.
// A single update can carry several changes (e.g. a move plus a mute).
func formatVoiceTransition(user string, old, new *discordgo.VoiceState, channelName func(string) string) []auditEntry {
	var oldID, newID string
	if old != nil {
		oldID = old.ChannelID
	}
	if new != nil {
		newID = new.ChannelID
	}

	var entries []auditEntry
	switch {
	case oldID == "" && newID != "":
		entries = append(entries, auditEntry{"Joined Voice Channel", fmt.Sprintf("%s → %s", user, channelName(newID))})
	case oldID != "" && newID == "":
		entries = append(entries, auditEntry{"Left Voice Channel", fmt.Sprintf("%s ← %s", user, channelName(oldID))})
	case oldID != "" && newID != "" && oldID != newID:
		entries = append(entries, auditEntry{"Moved Voice Channel", fmt.Sprintf("%s: %s → %s", user, channelName(oldID), channelName(newID))})
	}

	if old != nil && new != nil {
		if old.Mute != new.Mute {
			entries = append(entries, auditEntry{"Server Mute Changed", fmt.Sprintf("%s muted: %t", user, new.Mute)})
		}
		if old.Deaf != new.Deaf {
			entries = append(entries, auditEntry{"Server Deafen Changed", fmt.Sprintf("%s deafened: %t", user, new.Deaf)})
		}
	}
	return entries
}

// formatMessageDelete renders a deleted message. The cached copy may be
// missing entirely when the message predates this process.
func formatMessageDelete(before *discordgo.Message, channel string) (string, string) {
	author := "Unknown"
	content := "[content unavailable]"
	if before != nil {
		if before.Author != nil {
			author = before.Author.String()
		}
		if before.Content != "" {
			content = before.Content
		}
	}
	return "Message Deleted", fmt.Sprintf("User: %s\nChannel: %s\nContent: %s", author, channel, content)
}

func formatMessageEdit(before, after *discordgo.Message, channel string) (string, string) {
	author := "Unknown"
	if after != nil && after.Author != nil {
		author = after.Author.String()
	}
	oldContent := "[old content unavailable]"
	if before != nil && before.Content != "" {
		oldContent = before.Content
	}
	newContent := "[new content unavailable]"
	if after != nil && after.Content != "" {
		newContent = after.Content
	}
	return "Message Edited", fmt.Sprintf("User: %s\nChannel: %s\nOld: %s\nNew: %s", author, channel, oldContent, newContent)
}

// diffRoles returns the role IDs present only in new (added) and only in
// old (removed).
func diffRoles(old, new []string) (added, removed []string) {
	oldSet := make(map[string]bool, len(old))
	for _, id := range old {
		oldSet[id] = true
	}
	newSet := make(map[string]bool, len(new))
	for _, id := range new {
		newSet[id] = true
		if !oldSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range old {
		if !newSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func joinRoleNames(roleIDs []string, name func(string) string) string {
	names := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		names[i] = name(id)
	}
	return strings.Join(names, ", ")
}

func channelName(s *discordgo.Session, channelID string) string {
	if ch, err := s.State.Channel(channelID); err == nil {
		return ch.Name
	}
	return channelID
}
