package submit

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/podscout/podscout/internal/domain"
)

// Validation errors surfaced to the user before any network call.
var (
	ErrMissingFields  = errors.New("please fill in all required fields")
	ErrInvalidYouTube = errors.New("Invalid YouTube URL")
)

// Service validates and submits user-contributed catalog entries, and can
// prefill a submission from a podcast RSS feed.
type Service struct {
	catalog domain.CatalogRepository
	parser  *gofeed.Parser
	logger  *slog.Logger
}

// NewService creates a submission service.
func NewService(catalog domain.CatalogRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog: catalog,
		parser:  gofeed.NewParser(),
		logger:  logger,
	}
}

// Validate checks the submission locally. Title, author, description,
// YouTube URL and duration are required, and the URL must actually point at
// YouTube.
func (s *Service) Validate(sub domain.Submission) error {
	if strings.TrimSpace(sub.Title) == "" ||
		strings.TrimSpace(sub.Author) == "" ||
		strings.TrimSpace(sub.Description) == "" ||
		strings.TrimSpace(sub.YouTubeURL) == "" ||
		strings.TrimSpace(sub.Duration) == "" {
		return ErrMissingFields
	}
	if !domain.IsYouTubeURL(sub.YouTubeURL) {
		return ErrInvalidYouTube
	}
	return nil
}

// Submit validates the entry and posts it to the catalog. Validation
// failures are returned before any request is issued.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (*domain.Episode, error) {
	if err := s.Validate(sub); err != nil {
		return nil, err
	}

	ep, err := s.catalog.Submit(ctx, sub)
	if err != nil {
		s.logger.Error("submission failed", "title", sub.Title, "error", err)
		return nil, err
	}

	s.logger.Info("episode submitted", "id", ep.ID, "title", ep.Title)
	return ep, nil
}

// Prefill parses a podcast RSS feed and fills the descriptive fields of a
// submission from the channel metadata. The YouTube URL and duration still
// have to be provided by the user.
func (s *Service) Prefill(ctx context.Context, rssURL string) (domain.Submission, error) {
	parsed, err := s.parser.ParseURLWithContext(rssURL, ctx)
	if err != nil {
		return domain.Submission{}, err
	}

	sub := domain.Submission{
		Title:       parsed.Title,
		Description: parsed.Description,
		Language:    parsed.Language,
		Website:     parsed.Link,
		RSSURL:      rssURL,
	}
	if len(parsed.Authors) > 0 && parsed.Authors[0] != nil {
		sub.Author = parsed.Authors[0].Name
	}
	if len(parsed.Categories) > 0 {
		sub.Tags = strings.Join(parsed.Categories, ", ")
	}
	return sub, nil
}
