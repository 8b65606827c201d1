package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/podscout/podscout/internal/domain"
)

const defaultMaxInFlight = 8

// Enricher resolves source URLs into stream/thumbnail URLs and applies the
// results to the cache, one asynchronous task per episode. Concurrency is
// bounded by a semaphore; there is no ordering between episodes, no retry,
// and no cancellation. An abandoned completion is a harmless id-addressed
// no-op against the cache.
type Enricher struct {
	resolver domain.StreamResolver
	cache    *Cache
	sem      chan struct{}
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewEnricher creates an enricher with at most maxInFlight concurrent
// resolver calls.
func NewEnricher(resolver domain.StreamResolver, cache *Cache, maxInFlight int, logger *slog.Logger) *Enricher {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		resolver: resolver,
		cache:    cache,
		sem:      make(chan struct{}, maxInFlight),
		logger:   logger,
	}
}

// Enrich schedules resolution for one episode and returns immediately.
// Episodes with no source URL complete at once with nothing set.
func (e *Enricher) Enrich(ep *domain.Episode) {
	if !ep.HasSource() {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		e.sem <- struct{}{}
		defer func() { <-e.sem }()

		// Deliberately not tied to the page fetch: a category switch must
		// not cancel in-flight resolutions. The resolver client carries its
		// own timeout.
		info, err := e.resolver.Resolve(context.Background(), ep.SourceURL)
		if err != nil || info == nil {
			return
		}
		// All or nothing: never set one of the two fields.
		if info.StreamURL == "" || info.ThumbnailURL == "" {
			return
		}

		if e.cache.ApplyEnrichment(ep.ID, info.StreamURL, info.ThumbnailURL) {
			e.logger.Debug("episode enriched", "id", ep.ID)
		}
	}()
}

// Wait blocks until every scheduled enrichment has completed. Used by the
// library loader and by tests; the browse path never waits.
func (e *Enricher) Wait() {
	e.wg.Wait()
}
