package config

import (
	"os"

	"github.com/spf13/viper"
)

func initDefaults() {
	viper.SetDefault("discord.token", os.Getenv("discord_token"))
	viper.SetDefault("prefix", "!")
	viper.SetDefault("idle.timeout", 300)
	viper.SetDefault("cache.metadata", 3600)
	viper.SetDefault("redis.address", os.Getenv("redis_address"))
	viper.SetDefault("postgres.dsn", os.Getenv("postgres_dsn"))
	viper.SetDefault("theme", 0x9b59b6)
}
