package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Nocturne/audit"
	"Nocturne/commands"
	"Nocturne/config"
	"Nocturne/db_client"
	"Nocturne/handlers"
	"Nocturne/player"
	"Nocturne/redis_client"
	"Nocturne/resolver"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

var production *bool

func main() {
	// Sets Flag to Debug Mode
	production = flag.Bool("p", false, "enables production with json logging")
	flag.Parse()
	if *production {
		log.InitJSONLogger(&log.Config{Output: os.Stdout})
	} else {
		log.InitSimpleLogger(&log.Config{Output: os.Stdout})
	}

	// Sets up Configurations for Viper
	config.InitConfig()

	token := viper.GetString("discord.token")
	if token == "" {
		log.Error("No discord token configured, set discord_token")
		os.Exit(1)
	}

	// Creates Discord Bot Session
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		log.WithError(err).Error("Failed to create Discord session")
		return
	}

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("Bot has registered handlers")
	})

	// Best-effort infrastructure: the bot runs without Redis or Postgres
	db_client.Init()
	rdb := redis_client.Init()

	var store *audit.Store
	if db_client.DB != nil {
		store, err = audit.NewStore(db_client.DB)
		if err != nil {
			log.WithError(err).Error("Failed to migrate audit history table")
		}
	}

	// Wiring: resolver -> registry -> router, audit sink alongside
	res := resolver.NewYouTube(rdb)
	idleTimeout := time.Duration(viper.GetInt("idle.timeout")) * time.Second
	registry := player.NewRegistry(&player.DiscordDialer{Session: s}, res, idleTimeout)
	router := commands.NewRouter(registry, res)
	sink := audit.NewLogger(s, store)

	// Configuring Intents and Adding Handlers
	handlers.Configure(s, router, sink)

	// Connecting to Discord Server Gateway
	if err := s.Open(); err != nil {
		log.WithError(err).Error("Failed to open gateway connection")
		return
	}
	log.Info("Bot is initialising")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc
	gracefulShutdown(s, registry)
}

// gracefulShutdown handles cleaning up after the bot is shutdown
func gracefulShutdown(s *discordgo.Session, registry *player.Registry) {
	log.Info("Starting graceful shutdown...")

	registry.StopAll()

	for _, vc := range s.VoiceConnections {
		if vc != nil {
			vc.Disconnect()
		}
	}

	time.Sleep(5 * time.Second)

	s.Close()

	log.Info("Cleanly exiting")
}
