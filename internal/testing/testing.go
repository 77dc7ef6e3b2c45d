// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
)

// MockService is a scriptable test double for [services.Service]. Each
// operation can be overridden per test; unset operations return zero values.
// Call counts are recorded per method name.
type MockService struct {
	mu    sync.Mutex
	calls map[string]int

	ListPlaylistsFunc      func(ctx context.Context) ([]models.Playlist, error)
	ListPlaylistItemsFunc  func(ctx context.Context, playlistID string) ([]models.Video, error)
	CreatePlaylistFunc     func(ctx context.Context, title string) (*models.Playlist, error)
	RenamePlaylistFunc     func(ctx context.Context, playlistID, title string) error
	DeletePlaylistFunc     func(ctx context.Context, playlistID string) error
	FindPlaylistItemFunc   func(ctx context.Context, playlistID, videoID string) (*models.Video, error)
	InsertPlaylistItemFunc func(ctx context.Context, playlistID, videoID string) (*models.Video, error)
	DeletePlaylistItemFunc func(ctx context.Context, itemID string) error
}

func NewMockService() *MockService {
	return &MockService{calls: make(map[string]int)}
}

// Calls returns how many times the named method was invoked.
func (m *MockService) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockService) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	m.record("ListPlaylists")
	if m.ListPlaylistsFunc != nil {
		return m.ListPlaylistsFunc(ctx)
	}
	return []models.Playlist{}, nil
}

func (m *MockService) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.Video, error) {
	m.record("ListPlaylistItems")
	if m.ListPlaylistItemsFunc != nil {
		return m.ListPlaylistItemsFunc(ctx, playlistID)
	}
	return []models.Video{}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, title string) (*models.Playlist, error) {
	m.record("CreatePlaylist")
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, title)
	}
	return &models.Playlist{ID: "mock-created", Title: title}, nil
}

func (m *MockService) RenamePlaylist(ctx context.Context, playlistID, title string) error {
	m.record("RenamePlaylist")
	if m.RenamePlaylistFunc != nil {
		return m.RenamePlaylistFunc(ctx, playlistID, title)
	}
	return nil
}

func (m *MockService) DeletePlaylist(ctx context.Context, playlistID string) error {
	m.record("DeletePlaylist")
	if m.DeletePlaylistFunc != nil {
		return m.DeletePlaylistFunc(ctx, playlistID)
	}
	return nil
}

func (m *MockService) FindPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	m.record("FindPlaylistItem")
	if m.FindPlaylistItemFunc != nil {
		return m.FindPlaylistItemFunc(ctx, playlistID, videoID)
	}
	return &models.Video{ID: videoID, ItemID: "mock-item"}, nil
}

func (m *MockService) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	m.record("InsertPlaylistItem")
	if m.InsertPlaylistItemFunc != nil {
		return m.InsertPlaylistItemFunc(ctx, playlistID, videoID)
	}
	return &models.Video{ID: videoID, ItemID: "mock-inserted"}, nil
}

func (m *MockService) DeletePlaylistItem(ctx context.Context, itemID string) error {
	m.record("DeletePlaylistItem")
	if m.DeletePlaylistItemFunc != nil {
		return m.DeletePlaylistItemFunc(ctx, itemID)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
