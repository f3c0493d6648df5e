package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tb453/shopadmin/internal/access"
	"github.com/tb453/shopadmin/internal/adapter"
	"github.com/tb453/shopadmin/internal/adapter/backend"
	"github.com/tb453/shopadmin/internal/deletion"
	"github.com/tb453/shopadmin/internal/service"
	"github.com/tb453/shopadmin/internal/store"
	"github.com/tb453/shopadmin/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := newRootCmd(Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a command needs once configuration is loaded
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	store    *store.ShopStore
	client   *backend.Client
	sessions *service.SessionService

	logFile io.Closer
}

func setup(configPath string) (*app, error) {
	var (
		cfg *adapter.Config
		err error
	)
	if configPath != "" {
		cfg, err = adapter.LoadConfigFile(configPath)
	} else {
		cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		logFile = nil
	}
	slog.SetDefault(logger)

	st, err := store.NewShopStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// The client reads identity headers from the session service, and the
	// session service logs in through the client.
	sessions := service.NewSessionService(nil, st, logger)
	client := backend.NewClient(cfg.Server.URL, cfg.Server.Timeout, sessions, logger)
	sessions.SetRepository(client)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		client:   client,
		sessions: sessions,
		logFile:  logFile,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close cache", "error", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// runTUI builds the services and runs the terminal UI until the user quits
func runTUI(a *app) error {
	logger := a.logger
	logger.Info("starting shopadmin", "version", Version, "server", a.cfg.Server.URL)

	products := service.NewProductService(a.client, a.store, logger)
	sales := service.NewSalesService(a.client, products, a.store, logger)

	notifier := tui.NewChannelNotifier()
	deletions := deletion.New(products, products, notifier, deletion.Options{
		Delay:          a.cfg.Deletion.Delay,
		NoticeDuration: a.cfg.UI.NoticeDuration,
		Logger:         logger,
	})
	defer deletions.Close()
	unsubscribe := deletions.Subscribe(notifier.Publish)
	defer unsubscribe()

	model := tui.NewModel(tui.Services{
		Products:  products,
		Sales:     sales,
		Reports:   service.NewReportService(products, sales),
		Accounts:  service.NewAccountService(a.client, a.sessions, logger),
		Activity:  service.NewActivityService(a.client, logger),
		Sessions:  a.sessions,
		Deletions: deletions,
		Router:    access.MustNewRouter(access.DefaultTable()),
		Notifier:  notifier,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
