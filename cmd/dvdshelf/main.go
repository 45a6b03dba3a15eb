package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dvdshelf/dvdshelf/internal/adapter"
	"github.com/dvdshelf/dvdshelf/internal/collection"
	"github.com/dvdshelf/dvdshelf/internal/console"
	"github.com/dvdshelf/dvdshelf/internal/service"
	"github.com/dvdshelf/dvdshelf/internal/store"
	"github.com/dvdshelf/dvdshelf/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	backend    string
	frontend   string
	importPath string
}

func main() {
	var opts options
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.backend, "backend", "", "storage backend: memory, bolt or postgres (overrides config)")
	flag.StringVar(&opts.frontend, "ui", "", "user interface: console or tui (overrides config)")
	flag.StringVar(&opts.importPath, "import", "", "import DVDs from this CSV file before starting")
	flag.Parse()

	if showVersion {
		fmt.Printf("dvdshelf %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.backend != "" {
		cfg.Storage.Backend = adapter.Backend(opts.backend)
	}
	if opts.frontend != "" {
		cfg.UI.Frontend = adapter.Frontend(opts.frontend)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Stderr output would tear the full-screen interface
	if cfg.UI.Frontend == adapter.FrontendTUI {
		cfg.Logging.Stderr = false
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting dvdshelf", "version", Version, "backend", cfg.Storage.Backend, "frontend", cfg.UI.Frontend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	svc := service.NewShelfService(collection.New(st, logger), logger)

	if opts.importPath != "" {
		res, err := svc.Import(ctx, opts.importPath)
		if err != nil && res.Imported == 0 {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Printf("%d DVDs imported, %d lines skipped\n", res.Imported, res.Skipped)
	}

	if cfg.UI.Frontend == adapter.FrontendConsole {
		return console.New(svc, os.Stdin, os.Stdout, logger).Run(ctx)
	}

	p := tea.NewProgram(
		tui.NewModel(svc, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
