package audit

import (
	"sync"
	"time"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

const logChannelName = "server-logs"

// Logger delivers audit entries to a guild's log channel, creating the
// channel on first use. Delivery is best effort: failures are logged
// locally and the entry is dropped.
type Logger struct {
	session *discordgo.Session
	store   *Store // nil disables history persistence

	mu       sync.Mutex
	channels map[string]string // guildID -> log channel ID
}

func NewLogger(s *discordgo.Session, store *Store) *Logger {
	return &Logger{
		session:  s,
		store:    store,
		channels: make(map[string]string),
	}
}

// Emit sends one audit entry to the guild's log channel and, when a store
// is configured, appends it to the history table.
func (l *Logger) Emit(guildID, title, body string) {
	if l.store != nil {
		l.store.Append(guildID, title, body)
	}

	channelID, err := l.logChannel(guildID)
	if err != nil {
		log.WithError(err).Error("Failed to find or create log channel in guild " + guildID)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: body,
		Color:       viper.GetInt("theme"),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if _, err := l.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.WithError(err).Error("Failed to deliver audit entry to guild " + guildID)
	}
}

// logChannel resolves the guild's log channel ID, creating the channel when
// it doesn't exist yet.
func (l *Logger) logChannel(guildID string) (string, error) {
	l.mu.Lock()
	if id, ok := l.channels[guildID]; ok {
		l.mu.Unlock()
		return id, nil
	}
	l.mu.Unlock()

	channels, err := l.session.GuildChannels(guildID)
	if err != nil {
		return "", err
	}

	var channelID string
	for _, ch := range channels {
		if ch.Name == logChannelName && ch.Type == discordgo.ChannelTypeGuildText {
			channelID = ch.ID
			break
		}
	}

	if channelID == "" {
		ch, err := l.session.GuildChannelCreate(guildID, logChannelName, discordgo.ChannelTypeGuildText)
		if err != nil {
			return "", err
		}
		channelID = ch.ID
	}

	l.mu.Lock()
	l.channels[guildID] = channelID
	l.mu.Unlock()
	return channelID, nil
}
