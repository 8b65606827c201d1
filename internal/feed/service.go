package feed

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/podscout/podscout/internal/domain"
)

const defaultPageSize = 20

// Section window boundaries over a category feed. Pure presentation slicing,
// kept here so every caller windows identically.
const (
	featuredEnd      = 5
	trendingEnd      = 8
	recentEnd        = 14
	recommendedCount = 4
)

// Service owns pagination for every category: it fetches pages from the
// catalog, maintains the cache, and hands newly fetched episodes to the
// enricher. One fetch per category may be in flight at a time.
type Service struct {
	catalog  domain.CatalogRepository
	cache    *Cache
	enricher *Enricher
	pageSize int
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewService creates a feed service. pageSize <= 0 selects the default of 20.
func NewService(catalog domain.CatalogRepository, cache *Cache, enricher *Enricher, pageSize int, logger *slog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:  catalog,
		cache:    cache,
		enricher: enricher,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Feed returns the cached state for a category without touching the network.
func (s *Service) Feed(category string) (domain.CategoryFeed, bool) {
	return s.cache.Feed(normalize(category))
}

// FetchPage fetches one page for the category. reset discards the cached
// items and starts from offset zero; otherwise the page is appended. When
// the category is exhausted (HasMore false) and reset is false the call is a
// no-op and no request is issued. On failure the cache and pagination state
// are left untouched, so retrying with the same arguments is safe.
func (s *Service) FetchPage(ctx context.Context, category string, reset bool) (domain.CategoryFeed, error) {
	category = normalize(category)

	s.mu.Lock()
	if s.inFlight[category] {
		s.mu.Unlock()
		s.logger.Debug("fetch already in flight", "category", category)
		state, _ := s.cache.Feed(category)
		return state, nil
	}
	if s.inFlight == nil {
		s.inFlight = make(map[string]bool)
	}
	s.inFlight[category] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, category)
		s.mu.Unlock()
	}()

	state, cached := s.cache.Feed(category)

	offset := state.NextOffset
	if reset || !cached {
		offset = 0
	} else if !state.HasMore {
		// Exhausted; nothing to do.
		return state, nil
	}

	episodes, err := s.catalog.FetchPage(ctx, category, offset, s.pageSize)
	if err != nil {
		s.logger.Error("page fetch failed", "category", category, "offset", offset, "error", err)
		return state, err
	}

	nextOffset := offset + s.pageSize
	hasMore := len(episodes) == s.pageSize

	if reset || !cached {
		s.cache.Replace(category, episodes, nextOffset, hasMore)
	} else {
		s.cache.Append(category, episodes, nextOffset, hasMore)
	}

	// Enrich only the newly fetched episodes, never the already-cached ones.
	for _, ep := range episodes {
		s.enricher.Enrich(ep)
	}

	s.logger.Debug("page fetched",
		"category", category,
		"count", len(episodes),
		"nextOffset", nextOffset,
		"hasMore", hasMore,
	)

	updated, _ := s.cache.Feed(category)
	return updated, nil
}

// Refresh invalidates the category and performs a reset fetch, guaranteeing
// the result never mixes stale and fresh items.
func (s *Service) Refresh(ctx context.Context, category string) (domain.CategoryFeed, error) {
	category = normalize(category)
	s.cache.Invalidate(category)
	return s.FetchPage(ctx, category, true)
}

// Invalidate drops the cached entry for a category.
func (s *Service) Invalidate(category string) {
	s.cache.Invalidate(normalize(category))
}

// Sections windows a category's cached items into the browse screen's fixed
// sections. Recommended is a random pick from the tail.
func (s *Service) Sections(category string) domain.Sections {
	state, _ := s.cache.Feed(normalize(category))
	items := state.Items

	sections := domain.Sections{
		Featured: window(items, 0, featuredEnd),
		Trending: window(items, featuredEnd, trendingEnd),
		Recent:   window(items, trendingEnd, recentEnd),
	}

	if len(items) > recentEnd {
		tail := append([]*domain.Episode(nil), items[recentEnd:]...)
		rand.Shuffle(len(tail), func(i, j int) {
			tail[i], tail[j] = tail[j], tail[i]
		})
		if len(tail) > recommendedCount {
			tail = tail[:recommendedCount]
		}
		sections.Recommended = tail
	}

	return sections
}

func window(items []*domain.Episode, start, end int) []*domain.Episode {
	if start >= len(items) {
		return nil
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func normalize(category string) string {
	if category == "" {
		return domain.CategoryAll
	}
	return category
}
