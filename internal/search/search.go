package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/podscout/podscout/internal/domain"
)

// FeedReader is the cache-only view the search service filters over.
type FeedReader interface {
	Feed(category string) (domain.CategoryFeed, bool)
}

// Result is one ranked match.
type Result struct {
	Episode *domain.Episode
	Rank    int // Levenshtein-ish distance; lower is better
}

// Service filters cached feed items by fuzzy title/author match. It never
// touches the network; an unfetched category simply yields no results.
type Service struct {
	feeds  FeedReader
	logger *slog.Logger
}

// NewService creates a search service over the feed cache.
func NewService(feeds FeedReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{feeds: feeds, logger: logger}
}

// Filter returns the cached episodes of a category matching the query,
// ranked best-first. An empty query returns nil.
func (s *Service) Filter(category, query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	state, ok := s.feeds.Feed(category)
	if !ok || len(state.Items) == 0 {
		return nil
	}

	var results []Result
	for _, ep := range state.Items {
		target := ep.Title + " " + ep.Author
		rank := fuzzy.RankMatchNormalizedFold(query, target)
		if rank < 0 {
			continue
		}
		results = append(results, Result{Episode: ep, Rank: rank})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rank < results[j].Rank
	})

	s.logger.Debug("filtered feed", "category", category, "query", query, "matches", len(results))
	return results
}
