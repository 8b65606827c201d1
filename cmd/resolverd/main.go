package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/podscout/podscout/internal/resolverd"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Load .env file if it exists
	godotenv.Load()

	var (
		addr        = flag.String("addr", getEnvOrDefault("RESOLVERD_ADDR", "127.0.0.1:5000"), "listen address")
		format      = flag.String("format", getEnvOrDefault("RESOLVERD_FORMAT", "best"), "yt-dlp format selector")
		showVersion = flag.Bool("version", false, "print version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("resolverd %s\n", Version)
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	resolver := resolverd.NewYTDLPResolver(*format)
	server := resolverd.NewServer(resolver, logger)

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      server,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	logger.Info("resolverd listening", "addr", *addr, "format", *format)
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
