package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/store"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/tasks"
)

// VideoList prints the videos of a playlist, optionally filtered and sorted.
func (r *Runner) VideoList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}

	playlistID := cmd.String("playlist-id")
	videos, err := svc.ListPlaylistItems(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to list playlist items: %w", err)
	}

	videos = models.FilterVideos(videos, cmd.String("filter"))

	switch strings.ToLower(cmd.String("sort")) {
	case "":
	case "title":
		models.SortVideosByTitle(videos)
	case "date":
		models.SortVideosByDate(videos)
	default:
		return fmt.Errorf("%w: unknown sort order %q", shared.ErrInvalidArgument, cmd.String("sort"))
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}

	r.writePlainHeader(fmt.Sprintf("Videos (%d)", len(videos)))
	for _, v := range videos {
		line := v.Title
		if v.Duration != "" {
			line = fmt.Sprintf("%s [%s]", line, v.Duration)
		}
		if v.ChannelTitle != "" {
			line = fmt.Sprintf("%s • %s", line, v.ChannelTitle)
		}
		r.writePlain("%s  %s\n", v.ID, line)
	}
	return nil
}

// VideoMove moves a video between playlists, printing each step as it runs.
func (r *Runner) VideoMove(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx, cmd.Bool("mock"))
	if err != nil {
		return err
	}

	sourceID := cmd.String("from")
	targetID := cmd.String("to")
	videoID := cmd.String("video")

	cache := store.New(svc, r.logger)
	engine := tasks.NewEngine(svc, cache, r.logger)

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go r.printProgress(progress, done)

	result, err := engine.Move(ctx, sourceID, targetID, videoID, progress)
	close(progress)
	<-done

	if err != nil {
		var partial *tasks.PartialMoveError
		if errors.As(err, &partial) {
			r.writePlain("✗ Move incomplete: the video was added to %s but still exists in %s\n", partial.TargetID, partial.SourceID)
			r.writePlain("  Remove it manually or re-run the move once the API recovers\n")
		}
		return err
	}

	return r.writePlain("✓ Moved %q from %s to %s\n", result.Video.Title, result.SourceID, result.TargetID)
}
