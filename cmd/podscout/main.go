package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/podscout/podscout/internal/adapter/resolver"
	"github.com/podscout/podscout/internal/adapter/supabase"
	"github.com/podscout/podscout/internal/config"
	"github.com/podscout/podscout/internal/feed"
	"github.com/podscout/podscout/internal/library"
	"github.com/podscout/podscout/internal/log"
	"github.com/podscout/podscout/internal/search"
	"github.com/podscout/podscout/internal/session"
	"github.com/podscout/podscout/internal/store"
	"github.com/podscout/podscout/internal/submit"
	"github.com/podscout/podscout/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("podscout %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting podscout", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	// Open the local store for session and library snapshots
	st, err := store.Open(config.DataPath())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer st.Close()

	sessions := session.NewManager(st, logger)
	backend := supabase.NewClient(cfg.Backend.URL, cfg.Backend.APIKey, sessions, logger)

	// Sign in before starting the TUI; every catalog write needs a token
	if !sessions.Authenticated() {
		if err := runLoginFlow(backend, sessions); err != nil {
			return err
		}
	}

	// Create services
	resolverClient := resolver.NewClient(cfg.Resolver.URL, logger)
	cache := feed.NewCache()
	enricher := feed.NewEnricher(resolverClient, cache, cfg.Feed.MaxEnrichInFlight, logger)
	feedSvc := feed.NewService(backend, cache, enricher, cfg.Feed.PageSize, logger)
	librarySvc := library.NewService(backend, backend, resolverClient, st, sessions, logger)
	submitSvc := submit.NewService(backend, logger)
	searchSvc := search.NewService(feedSvc, logger)

	// Create TUI model
	model := tui.NewModel(feedSvc, librarySvc, submitSvc, searchSvc, logger)

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to podscout!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	backendURL, err := prompt(reader, "Backend URL (e.g. https://myproject.supabase.co): ")
	if err != nil {
		return err
	}
	apiKey, err := prompt(reader, "Backend anon key: ")
	if err != nil {
		return err
	}

	fmt.Printf("Resolver URL [%s]: ", cfg.Resolver.URL)
	resolverURL, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if resolverURL = strings.TrimSpace(resolverURL); resolverURL != "" {
		cfg.Resolver.URL = resolverURL
	}

	cfg.Backend.URL = backendURL
	cfg.Backend.APIKey = apiKey

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run podscout again to sign in and start the application.")

	return nil
}

// runLoginFlow signs the user in (or up) on the terminal before the TUI starts
func runLoginFlow(backend *supabase.Client, sessions *session.Manager) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	for {
		choice, err := prompt(reader, "[l]og in or [s]ign up? ")
		if err != nil {
			return err
		}

		email, err := prompt(reader, "Email: ")
		if err != nil {
			return err
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

		if strings.HasPrefix(strings.ToLower(choice), "s") {
			name, err := prompt(reader, "Display name: ")
			if err != nil {
				cancel()
				return err
			}
			if err := backend.SignUp(ctx, email, string(password), name); err != nil {
				cancel()
				fmt.Printf("✗ Sign-up failed: %v\n\n", err)
				continue
			}
			cancel()
			fmt.Println("✓ Account created. Log in to continue.")
			fmt.Println()
			continue
		}

		sess, err := backend.SignIn(ctx, email, string(password))
		cancel()
		if err != nil {
			fmt.Printf("✗ Login failed: %v\n\n", err)
			continue
		}

		if err := sessions.LogIn(sess); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		fmt.Println("✓ Logged in!")
		return nil
	}
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}
