package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/formatter"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/services"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/tasks"
)

// PlaylistList prints the account's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}

	playlists, err := svc.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, pl := range playlists {
		r.writePlain("%s  %s (%d videos)\n", pl.ID, pl.Title, pl.ItemCount)
	}
	return nil
}

// PlaylistCreate creates a new private playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: a playlist title is required", shared.ErrMissingArgument)
	}

	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}

	created, err := svc.CreatePlaylist(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	r.logger.Info("playlist created", "id", created.ID, "title", created.Title)
	return r.writePlain("✓ Created %q (%s)\n", created.Title, created.ID)
}

// PlaylistRename updates a playlist's title.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}

	playlistID := cmd.String("id")
	title := cmd.String("title")

	if err := svc.RenamePlaylist(ctx, playlistID, title); err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}

	return r.writePlain("✓ Renamed %s to %q\n", playlistID, title)
}

// PlaylistDelete removes a playlist after confirmation.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")

	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: deleting a playlist removes all its entries, re-run with --yes to confirm", shared.ErrInvalidArgument)
	}

	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}

	if err := svc.DeletePlaylist(ctx, playlistID); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	r.logger.Info("playlist deleted", "id", playlistID)
	return r.writePlain("✓ Deleted %s\n", playlistID)
}

// PlaylistExport writes a playlist to disk as csv, markdown or text.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}

	playlistID := cmd.String("id")
	format := strings.ToLower(cmd.String("format"))
	output := cmd.String("output")

	playlist, err := findPlaylist(ctx, svc, playlistID)
	if err != nil {
		return err
	}

	videos, err := svc.ListPlaylistItems(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to list playlist items: %w", err)
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(playlist, videos, output)
		if err != nil {
			return fmt.Errorf("failed to export playlist: %w", err)
		}
		r.writePlain("✓ Exported %d videos to %s\n", len(videos), result.VideosFile)
		return r.writePlain("  Metadata written to %s\n", result.MetadataFile)
	case "markdown", "md":
		path, err := formatter.WriteMarkdownExport(playlist, videos, output)
		if err != nil {
			return fmt.Errorf("failed to export playlist: %w", err)
		}
		return r.writePlain("✓ Exported %d videos to %s\n", len(videos), path)
	case "text", "txt":
		path, err := formatter.WriteTextExport(playlist, videos, output)
		if err != nil {
			return fmt.Errorf("failed to export playlist: %w", err)
		}
		return r.writePlain("✓ Exported %d videos to %s\n", len(videos), path)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// findPlaylist resolves a playlist ID to its metadata.
func findPlaylist(ctx context.Context, svc services.Service, playlistID string) (models.Playlist, error) {
	playlists, err := svc.ListPlaylists(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to list playlists: %w", err)
	}
	for _, pl := range playlists {
		if pl.ID == playlistID {
			return pl, nil
		}
	}
	return models.Playlist{}, fmt.Errorf("%w: no playlist with id %s", shared.ErrPlaylistNotFound, playlistID)
}

// printProgress forwards move progress to the terminal as it happens.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	for update := range progress {
		if update.Total > 0 {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		} else {
			r.writePlain("%s\n", update.Message)
		}
	}
	close(done)
}
