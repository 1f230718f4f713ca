package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"kanban-board-api/internal/board"
	"kanban-board-api/internal/client"
	"kanban-board-api/internal/config"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "board: %v\n", err)
		os.Exit(1)
	}

	// the terminal belongs to the UI; logs go to a file or nowhere
	logger := log.New(io.Discard, "", 0)
	if cfg.Debug {
		f, err := tea.LogToFile("board.log", "board")
		if err != nil {
			fmt.Fprintf(os.Stderr, "board: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.Default()
	}

	opts := []client.Option{client.WithTimeout(cfg.HTTPTimeout)}
	if cfg.Debug {
		opts = append(opts, client.WithLogger(logger))
	}
	api := client.New(cfg.APIBase, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan realtime.Event, 16)
	go subscribe(ctx, api, events, logger)

	store := board.NewStore(api)
	program := tea.NewProgram(tui.NewModel(ctx, store, tui.Options{Events: events}), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "board failed: %v\n", err)
		os.Exit(1)
	}
}

// subscribe keeps a realtime connection open, reconnecting after drops.
// Events are dropped rather than blocking when the UI falls behind.
func subscribe(ctx context.Context, api *client.Client, events chan<- realtime.Event, logger *log.Logger) {
	for ctx.Err() == nil {
		err := api.Subscribe(ctx, func(evt realtime.Event) {
			select {
			case events <- evt:
			default:
			}
		})
		if err != nil {
			logger.Printf("realtime: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}
