// cmd/tagup/main.go
//
// Entry point for the tagup board. Running `tagup` from a project
// directory creates the .tagup/ folder there, wires the store behind the
// repository, and hands the terminal to the TUI.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"

	"tagup/internal/board"
	"tagup/internal/config"
	"tagup/internal/logging"
	"tagup/internal/store"
	"tagup/internal/tui"
	"tagup/internal/watch"
)

func main() {
	// The directory the user ran `tagup` from is the project.
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitBoardDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .tagup directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogsDir(), cfg.Settings.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Close() }()

	kv, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}

	repo := board.NewRepository(kv, logger)
	tagups := board.NewTagUpLog(kv, logger)

	p := tea.NewProgram(
		tui.NewApp(cfg, repo, tagups, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // drag needs motion events, not just clicks
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// With the file backend, optionally reload when the state files are
	// edited outside this process.
	if cfg.Settings.Watch && cfg.Settings.Store.Backend == config.BackendFile {
		watcher, err := watch.NewStateWatcher(cfg.StateDir(), 250*time.Millisecond, func() {
			p.Send(tui.ReloadMsg{})
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("main: state watcher unavailable")
		} else {
			go func() { _ = watcher.Run(ctx) }()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// openStore builds the key-value store named in config.yaml.
func openStore(cfg *config.Config) (store.KV, error) {
	switch cfg.Settings.Store.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Settings.Store.Redis.Addr,
			Password: cfg.Settings.Store.Redis.Password,
			DB:       cfg.Settings.Store.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis at %s: %w", cfg.Settings.Store.Redis.Addr, err)
		}
		return store.NewRedisKV(client), nil
	default:
		return store.NewFileKV(cfg.StateDir())
	}
}
