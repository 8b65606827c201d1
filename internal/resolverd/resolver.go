package resolverd

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/podscout/podscout/internal/domain"
)

const defaultResolveTimeout = 60 * time.Second

// Resolver turns a YouTube URL into playable stream metadata.
type Resolver interface {
	Resolve(ctx context.Context, sourceURL string) (*domain.StreamInfo, error)
}

// YTDLPResolver resolves URLs with yt-dlp without downloading anything.
type YTDLPResolver struct {
	format  string
	timeout time.Duration
}

// NewYTDLPResolver creates a resolver. format selects the yt-dlp format
// expression; empty means "best" single-file format.
func NewYTDLPResolver(format string) *YTDLPResolver {
	if format == "" {
		format = "best"
	}
	return &YTDLPResolver{
		format:  format,
		timeout: defaultResolveTimeout,
	}
}

// Resolve extracts the direct stream URL and thumbnail for a video.
func (r *YTDLPResolver) Resolve(ctx context.Context, sourceURL string) (*domain.StreamInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		NoPlaylist().
		Format(r.format)

	result, err := dl.Run(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	if len(info) == 0 || info[0].URL == nil || *info[0].URL == "" {
		return nil, fmt.Errorf("no playable format for %s", sourceURL)
	}

	out := &domain.StreamInfo{StreamURL: *info[0].URL}
	if info[0].Thumbnail != nil {
		out.ThumbnailURL = *info[0].Thumbnail
	}
	if info[0].Title != nil {
		out.Title = *info[0].Title
	}
	if info[0].Duration != nil {
		out.Duration = *info[0].Duration
	}
	return out, nil
}
