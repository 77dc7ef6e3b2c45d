// package formatter exports playlist contents to CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// ExportToCSV renders a playlist's videos as CSV with columns: ID, Title, Channel, Duration, Published
func ExportToCSV(playlist models.Playlist, videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Channel", "Duration", "Published"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, video := range videos {
		record := []string{
			video.ID,
			video.Title,
			video.ChannelTitle,
			video.Duration,
			formatPublished(video.PublishedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a playlist as a Markdown document.
func ExportToMarkdown(playlist models.Playlist, videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Title))

	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Videos**: %d\n\n", len(videos)))

	buf.WriteString("## Videos\n\n")
	for i, video := range videos {
		durationPart := ""
		if video.Duration != "" {
			durationPart = fmt.Sprintf(" [%s]", video.Duration)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, video.ChannelTitle, video.Title, durationPart))
	}

	return buf.Bytes(), nil
}

// ExportToText renders a playlist as plain text.
func ExportToText(playlist models.Playlist, videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Title))
	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(videos)))

	for i, video := range videos {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, video.ChannelTitle, video.Title))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without videos)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(playlist, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile   string
	MetadataFile string
}

// WriteCSVExport writes a playlist to {base}_videos.csv plus a
// {base}_metadata.json sidecar. The base filename defaults to the playlist ID.
func WriteCSVExport(playlist models.Playlist, videos []models.Video, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = playlist.ID
	}

	csvData, err := ExportToCSV(playlist, videos)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		VideosFile:   videosFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport writes a playlist to {dir}/README.md. The directory
// defaults to the playlist ID.
func WriteMarkdownExport(playlist models.Playlist, videos []models.Video, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(playlist, videos)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport writes a playlist to {playlist.ID}_videos.txt by default.
func WriteTextExport(playlist models.Playlist, videos []models.Video, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_videos.txt", playlist.ID)
	}

	textData, err := ExportToText(playlist, videos)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

func formatPublished(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
