package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/repositories"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/services"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/session"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	service services.Service
	manager *session.Manager
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service and Manager are optional; when unset the runner builds them on
// demand from the config (mock service or an authenticated YouTube client).
type RunnerOpts struct {
	Config  *shared.Config
	Service services.Service
	Manager *session.Manager
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		manager: opts.Manager,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's logger, propagating it to an already-built manager.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle if the runner opened one.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	db := r.db
	r.db = nil
	return db.Close()
}

// database opens the session store lazily, running migrations on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// sessionManager builds the OAuth session manager over the session store.
func (r *Runner) sessionManager() (*session.Manager, error) {
	if r.manager != nil {
		return r.manager, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}

	repo := repositories.NewSessionRepository(db)
	r.manager = session.NewManager(*r.config, repo, r.logger)
	return r.manager, nil
}

// resolveService returns the playlist service commands operate on.
//
// The mock service never touches the network and requires no sign in. The
// YouTube service reuses the persisted session, refreshing its token when
// needed.
func (r *Runner) resolveService(ctx context.Context, useMock bool) (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	if useMock || r.config.App.UseMock {
		r.logger.Debug("using the in-memory mock service")
		r.service = services.NewSeededService()
		return r.service, nil
	}

	manager, err := r.sessionManager()
	if err != nil {
		return nil, err
	}
	manager.Restore(ctx)

	ts, err := manager.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: run 'ytorg auth login' first", err)
	}

	svc, err := services.NewYouTubeService(ctx, ts, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	r.service = svc
	return r.service, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
