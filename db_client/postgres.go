package db_client

import (
	"time"

	"github.com/Strum355/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB *gorm.DB
)

// Init connects to Postgres for audit history. The bot runs without it:
// a failed connection leaves DB nil and history persistence disabled.
func Init() {
	dsn := viper.GetString("postgres.dsn")
	if dsn == "" {
		log.Info("No postgres DSN configured, audit history disabled")
		return
	}

	var err error
	for range 10 {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			sqlDB, _ := DB.DB()
			if pingErr := sqlDB.Ping(); pingErr == nil {
				return
			}
		}
		log.Info("Waiting for Postgres to be ready...")
		time.Sleep(time.Second)
	}

	log.WithError(err).Error("Unable to connect to database, audit history disabled")
	DB = nil
}
