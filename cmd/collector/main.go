package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stream-insights/internal/collector"
	"stream-insights/internal/config"
	"stream-insights/internal/database"
	"stream-insights/internal/store"
	"stream-insights/internal/twitch"

	"github.com/joho/godotenv"
)

var (
	channelsFile = flag.String("channels-file", "streamers.txt", "file with channel logins, one per line")
	interval     = flag.Int("interval", 120, "seconds between collection ticks")
	dbPath       = flag.String("db", "", "SQLite path (default APP_DB_PATH env or ./data/app.db)")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if !cfg.HasTwitchCredentials() {
		log.Fatal("TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET are required")
	}

	channels, err := collector.ReadChannelsFile(*channelsFile)
	if err != nil {
		log.Fatalf("Failed to read channels file: %v", err)
	}
	if len(channels) == 0 {
		log.Fatalf("No channels found in %s", *channelsFile)
	}

	path := cfg.DBPath
	if *dbPath != "" {
		path = *dbPath
	}
	db, err := database.Initialize(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	st := store.New(db)

	tw, err := twitch.NewClient(cfg.TwitchClientID, cfg.TwitchClientSecret)
	if err != nil {
		log.Fatalf("Failed to create twitch client: %v", err)
	}

	coll := collector.New(st, tw, channels, time.Duration(*interval)*time.Second)

	log.Printf("[collector] channels=%d interval=%ds db=%s", len(channels), *interval, path)
	coll.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("[collector] shutting down")
	coll.Stop()
}
