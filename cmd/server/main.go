package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rakshverma/Sociofy/internal/api"
	"github.com/rakshverma/Sociofy/internal/assistant"
	"github.com/rakshverma/Sociofy/internal/chat"
	"github.com/rakshverma/Sociofy/internal/config"
	"github.com/rakshverma/Sociofy/internal/database"
	"github.com/rakshverma/Sociofy/internal/stats"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var (
	addr           string
	dsn            string
	ollamaURL      string
	ollamaModel    string
	allowedOrigins stringSliceFlag
)

func main() {
	// .env is optional; flags and the environment take over when absent.
	godotenv.Load()

	flag.StringVar(&addr, "addr", envOr("SOCIOFY_ADDR", "localhost:5001"), "server address")
	flag.StringVar(&dsn, "dsn", envOr("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable"), "database connection string")
	flag.StringVar(&ollamaURL, "ollama-url", envOr("OLLAMA_URL", "http://localhost:11434/api/generate"), "text generation endpoint")
	flag.StringVar(&ollamaModel, "ollama-model", envOr("OLLAMA_MODEL", "sociofybot"), "text generation model name")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[sociofy] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dsn, ollamaURL, ollamaModel, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}

	repo, err := database.NewPgRoomRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if err := repo.Migrate(); err != nil {
		logger.Fatal("migrate:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	chatService := chat.NewService(logger, repo, statsUpdater)
	assistantClient := assistant.NewClient(logger, cfg.OllamaURL, cfg.OllamaModel)

	app := api.NewSociofyApp(mux, logger, chatService, assistantClient, repo, statsUpdater, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := app.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
