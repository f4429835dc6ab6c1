// Command taskmaster is a terminal client for the TaskMaster server:
// tasks with priorities, deadlines and categories, geofenced location
// filters, and a status panel that keeps score of your week.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskmaster-tui/internal/api"
	"taskmaster-tui/internal/app"
	"taskmaster-tui/internal/cache"
	"taskmaster-tui/internal/credential"
	"taskmaster-tui/internal/geo"
	"taskmaster-tui/internal/model"
	appsync "taskmaster-tui/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "taskmaster:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	serverURL := flag.String("server", "", "API base URL (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	if debugPath := os.Getenv("TASKMASTER_DEBUG"); debugPath != "" {
		f, err := tea.LogToFile(debugPath, "taskmaster")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	}

	client := api.NewClient(
		cfg.Server.BaseURL,
		time.Duration(cfg.Server.RequestTimeoutSec)*time.Second,
	)

	creds, err := credential.Open()
	if err != nil {
		// No keyring available; the session just won't survive restarts.
		creds = nil
	}

	cacheStore, err := cache.Open(cache.DefaultPath())
	if err != nil {
		cacheStore = nil
	} else {
		defer cacheStore.Close()
	}

	var provider geo.Provider
	if cfg.Geo.Enabled {
		provider = geo.NewConfigProvider(cfg.Geo)
	}

	refresher := appsync.New(
		client,
		provider,
		time.Duration(cfg.Display.RefreshIntervalSec)*time.Second,
		cfg.Geo.Enabled && cfg.Geo.Watch,
	)

	program := tea.NewProgram(
		app.New(cfg, client, creds, cacheStore, provider, refresher),
		tea.WithAltScreen(),
	)

	_, err = program.Run()
	return err
}
