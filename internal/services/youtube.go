// YouTube Data API v3 [Service] implementation
//
// Wraps the generated google.golang.org/api client, bound to the session's
// bearer credential via an oauth2 token source. All calls are throttled with
// a client-side limiter because the YouTube Data API quota is small.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	isoduration "github.com/sosodev/duration"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

const (
	// YouTubeScope is the OAuth scope requested for playlist management.
	YouTubeScope = "https://www.googleapis.com/auth/youtube"

	maxPageSize = 50

	// Default client-side throttle, requests per second.
	defaultRateLimit = 8
)

// YouTubeService implements [Service] against the YouTube Data API v3.
type YouTubeService struct {
	svc     *youtube.Service
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewYouTubeService creates a YouTube-backed service bound to the given token
// source. Extra client options are forwarded to the generated client, which
// lets tests point the service at a local HTTP server.
func NewYouTubeService(ctx context.Context, ts oauth2.TokenSource, logger *log.Logger, opts ...option.ClientOption) (*YouTubeService, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: no token source", shared.ErrNotAuthenticated)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	clientOpts := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	return &YouTubeService{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateLimit),
		logger:  logger,
	}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// wait blocks until the limiter admits another request.
func (y *YouTubeService) wait(ctx context.Context) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// mapError translates generated-client failures into [RemoteAPIError].
func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return NewAuthAPIError(apiErr.Code, apiErr.Message)
		default:
			return NewRemoteAPIError(apiErr.Code, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}

// ListPlaylists retrieves all playlists owned by the authenticated user,
// following pagination in server response order.
func (y *YouTubeService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	pageToken := ""

	for {
		if err := y.wait(ctx); err != nil {
			return nil, err
		}

		call := y.svc.Playlists.List([]string{"id", "snippet", "contentDetails"}).
			Mine(true).MaxResults(maxPageSize).PageToken(pageToken).Context(ctx)
		resp, err := call.Do()
		if err != nil {
			return nil, mapError(err)
		}

		for _, item := range resp.Items {
			playlists = append(playlists, playlistFromAPI(item))
		}

		if resp.NextPageToken == "" {
			return playlists, nil
		}
		pageToken = resp.NextPageToken
	}
}

// ListPlaylistItems retrieves the entries of a playlist. Each page is
// enriched with video durations through one batched Videos.List call.
func (y *YouTubeService) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.Video, error) {
	var videos []models.Video
	pageToken := ""

	for {
		if err := y.wait(ctx); err != nil {
			return nil, err
		}

		call := y.svc.PlaylistItems.List([]string{"id", "snippet", "contentDetails"}).
			PlaylistId(playlistID).MaxResults(maxPageSize).PageToken(pageToken).Context(ctx)
		resp, err := call.Do()
		if err != nil {
			return nil, mapError(err)
		}

		page := make([]models.Video, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
				continue
			}
			page = append(page, videoFromAPI(item))
		}

		if err := y.enrichDurations(ctx, page); err != nil {
			// Durations are cosmetic; the listing is still usable.
			y.logger.Warn("failed to enrich video durations", "playlist", playlistID, "error", err)
		}

		videos = append(videos, page...)

		if resp.NextPageToken == "" {
			return videos, nil
		}
		pageToken = resp.NextPageToken
	}
}

// CreatePlaylist creates a new private playlist with the given title.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title string) (*models.Playlist, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: playlist title cannot be empty", shared.ErrInvalidArgument)
	}
	if err := y.wait(ctx); err != nil {
		return nil, err
	}

	call := y.svc.Playlists.Insert([]string{"snippet", "status"}, &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{Title: title, Description: ""},
		Status:  &youtube.PlaylistStatus{PrivacyStatus: "private"},
	}).Context(ctx)

	created, err := call.Do()
	if err != nil {
		return nil, mapError(err)
	}

	playlist := playlistFromAPI(created)
	return &playlist, nil
}

// RenamePlaylist replaces the title of an existing playlist.
func (y *YouTubeService) RenamePlaylist(ctx context.Context, playlistID, title string) error {
	if playlistID == "" || title == "" {
		return fmt.Errorf("%w: playlist id and title are required", shared.ErrInvalidArgument)
	}
	if err := y.wait(ctx); err != nil {
		return err
	}

	call := y.svc.Playlists.Update([]string{"snippet"}, &youtube.Playlist{
		Id:      playlistID,
		Snippet: &youtube.PlaylistSnippet{Title: title},
	}).Context(ctx)

	if _, err := call.Do(); err != nil {
		return mapError(err)
	}
	return nil
}

// DeletePlaylist removes a playlist and its entries.
func (y *YouTubeService) DeletePlaylist(ctx context.Context, playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrInvalidArgument)
	}
	if err := y.wait(ctx); err != nil {
		return err
	}

	if err := y.svc.Playlists.Delete(playlistID).Context(ctx).Do(); err != nil {
		return mapError(err)
	}
	return nil
}

// FindPlaylistItem resolves the membership record of a video within a
// playlist. The returned entry's ItemID is the handle for deletion.
func (y *YouTubeService) FindPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	if err := y.wait(ctx); err != nil {
		return nil, err
	}

	call := y.svc.PlaylistItems.List([]string{"id", "snippet", "contentDetails"}).
		PlaylistId(playlistID).VideoId(videoID).Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, mapError(err)
	}

	if len(resp.Items) == 0 {
		return nil, NewNotFoundAPIError(
			fmt.Sprintf("video %s not found in playlist %s", videoID, playlistID),
			shared.ErrVideoNotFound,
		)
	}

	video := videoFromAPI(resp.Items[0])
	return &video, nil
}

// InsertPlaylistItem appends a video to a playlist and returns the created entry.
func (y *YouTubeService) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	if err := y.wait(ctx); err != nil {
		return nil, err
	}

	call := y.svc.PlaylistItems.Insert([]string{"id", "snippet", "contentDetails"}, &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}).Context(ctx)

	created, err := call.Do()
	if err != nil {
		return nil, mapError(err)
	}

	video := videoFromAPI(created)
	return &video, nil
}

// DeletePlaylistItem removes a playlist entry by its resource-binding id.
func (y *YouTubeService) DeletePlaylistItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", shared.ErrInvalidArgument)
	}
	if err := y.wait(ctx); err != nil {
		return err
	}

	if err := y.svc.PlaylistItems.Delete(itemID).Context(ctx).Do(); err != nil {
		return mapError(err)
	}
	return nil
}

// enrichDurations backfills Duration for one page of videos with a single
// batched Videos.List call.
func (y *YouTubeService) enrichDurations(ctx context.Context, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	if err := y.wait(ctx); err != nil {
		return err
	}

	resp, err := y.svc.Videos.List([]string{"id", "contentDetails"}).Id(ids...).Context(ctx).Do()
	if err != nil {
		return mapError(err)
	}

	durations := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails == nil || item.ContentDetails.Duration == "" {
			continue
		}
		durations[item.Id] = FormatDuration(item.ContentDetails.Duration)
	}

	for i := range videos {
		if d, ok := durations[videos[i].ID]; ok {
			videos[i].Duration = d
		}
	}

	return nil
}

// playlistFromAPI converts a generated playlist resource into the domain DTO.
func playlistFromAPI(item *youtube.Playlist) models.Playlist {
	playlist := models.Playlist{ID: item.Id}
	if item.Snippet != nil {
		playlist.Title = item.Snippet.Title
		playlist.Description = item.Snippet.Description
		playlist.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
	}
	if item.ContentDetails != nil {
		playlist.ItemCount = int(item.ContentDetails.ItemCount)
	}
	return playlist
}

// videoFromAPI converts a generated playlist item resource into the domain DTO.
func videoFromAPI(item *youtube.PlaylistItem) models.Video {
	video := models.Video{ItemID: item.Id}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
		video.ChannelTitle = item.Snippet.VideoOwnerChannelTitle
		if video.ChannelTitle == "" {
			video.ChannelTitle = item.Snippet.ChannelTitle
		}
		if item.Snippet.ResourceId != nil {
			video.ID = item.Snippet.ResourceId.VideoId
		}
	}
	if item.ContentDetails != nil {
		if video.ID == "" {
			video.ID = item.ContentDetails.VideoId
		}
		if item.ContentDetails.VideoPublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, item.ContentDetails.VideoPublishedAt); err == nil {
				video.PublishedAt = ts
			}
		}
	}
	return video
}

// thumbnailURL picks a thumbnail, preferring medium resolution.
func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.Medium, t.Default, t.High} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// FormatDuration renders an ISO8601 video duration as H:MM:SS (or M:SS).
// Unparseable input yields the empty string.
func FormatDuration(iso string) string {
	parsed, err := isoduration.Parse(iso)
	if err != nil {
		return ""
	}

	d := parsed.ToTimeDuration().Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
