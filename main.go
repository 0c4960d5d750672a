// Command feedra is a terminal RSS reader. It talks to a feedra backend
// when one is configured and otherwise runs on an embedded database.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlag/feedra/internal/application/orchestrator"
	"github.com/mlag/feedra/internal/infrastructure/api"
	"github.com/mlag/feedra/internal/infrastructure/config"
	"github.com/mlag/feedra/internal/infrastructure/local"
	"github.com/mlag/feedra/internal/presentation/tui"
	"github.com/mlag/feedra/internal/state"
)

var cli struct {
	Config string `help:"Path to the config file." type:"path"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("feedra"),
		kong.Description("A terminal RSS reader."),
	)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "feedra:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgStore, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := cfgStore.Settings

	var svc orchestrator.Service
	if cfg.APIBaseURL != "" {
		svc = api.New(cfg.APIBaseURL)
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.DataFile), 0750); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		db, err := local.Open(cfg.DataFile)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()
		svc = local.NewService(db)
	}

	store := state.NewStore()
	orch := orchestrator.New(store, svc, cfg.RefreshInterval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch.Start(ctx)
	defer orch.Stop()

	model := tui.NewModel(cfg, store, orch)
	model.PersistRefreshInterval = cfgStore.SetRefreshInterval

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
