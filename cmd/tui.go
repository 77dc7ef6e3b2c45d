package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/store"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/tasks"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/ui"
)

// TUI launches the interactive two pane organizer.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.App.LogFile
	if logPath == "" {
		logPath = "./tmp/ytorg-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}
	defer r.Close()

	cache := store.New(svc, r.logger)
	engine := tasks.NewEngine(svc, cache, r.logger)

	model := ui.NewModel(ctx, cache, engine)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
