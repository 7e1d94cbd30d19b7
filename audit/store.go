package audit

import (
	"time"

	"github.com/Strum355/log"
	"gorm.io/gorm"
)

// Entry is one persisted audit record.
type Entry struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"index"`
	Title     string
	Body      string
	CreatedAt time.Time
}

// Store keeps audit history in Postgres. Inserts are best effort.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Append records one audit entry, logging and dropping on failure.
func (s *Store) Append(guildID, title, body string) {
	entry := Entry{GuildID: guildID, Title: title, Body: body}
	if err := s.db.Create(&entry).Error; err != nil {
		log.WithError(err).Error("Failed to persist audit entry for guild " + guildID)
	}
}
