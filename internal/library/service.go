package library

import (
	"context"
	"log/slog"
	"sync"

	"github.com/podscout/podscout/internal/domain"
)

const maxEnrichInFlight = 8

// SnapshotStore persists the last-known library entries so the library tab
// has something to show before the first fetch completes.
type SnapshotStore interface {
	GetLibrarySnapshot(userID string) ([]domain.LibraryStatus, bool)
	SaveLibrarySnapshot(userID string, entries []domain.LibraryStatus) error
}

// UserSource identifies whose library is being read.
type UserSource interface {
	UserID() string
}

// Library is the hydrated result of loading the user's saved episodes.
type Library struct {
	Liked      []*domain.Episode
	WatchLater []*domain.Episode
}

// Service reads and writes the per-user liked/watch-later state and hydrates
// the library lists from the catalog.
type Service struct {
	repo     domain.LibraryRepository
	catalog  domain.CatalogRepository
	resolver domain.StreamResolver
	store    SnapshotStore
	users    UserSource
	logger   *slog.Logger
}

// NewService creates a library service.
func NewService(repo domain.LibraryRepository, catalog domain.CatalogRepository, resolver domain.StreamResolver, store SnapshotStore, users UserSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		catalog:  catalog,
		resolver: resolver,
		store:    store,
		users:    users,
		logger:   logger,
	}
}

// Upsert writes the non-nil flags for an episode and returns the full
// resulting state. Both flags nil is a pure read; the player screen uses
// that to sync its toggles on open. Concurrent writes for the same episode
// are last-write-wins at the backend.
func (s *Service) Upsert(ctx context.Context, episodeID int64, liked, watchLater *bool) (domain.LibraryStatus, error) {
	status, err := s.repo.Upsert(ctx, episodeID, liked, watchLater)
	if err != nil {
		s.logger.Error("library upsert failed", "episode", episodeID, "error", err)
		return domain.LibraryStatus{}, err
	}
	return status, nil
}

// Status returns the current flags for an episode without writing anything.
func (s *Service) Status(ctx context.Context, episodeID int64) (domain.LibraryStatus, error) {
	return s.Upsert(ctx, episodeID, nil, nil)
}

// Cached returns the persisted library snapshot, if one exists for the
// current user.
func (s *Service) Cached() ([]domain.LibraryStatus, bool) {
	return s.store.GetLibrarySnapshot(s.users.UserID())
}

// Load fetches the user's library entries, hydrates them from the catalog,
// resolves stream data for each, and returns the liked and watch-later
// lists. Unlike the browse feed, the library waits for enrichment so the
// lists arrive complete.
func (s *Service) Load(ctx context.Context) (Library, error) {
	entries, err := s.repo.Entries(ctx)
	if err != nil {
		s.logger.Error("failed to fetch library entries", "error", err)
		return Library{}, err
	}

	if err := s.store.SaveLibrarySnapshot(s.users.UserID(), entries); err != nil {
		s.logger.Warn("failed to persist library snapshot", "error", err)
	}

	liked := make(map[int64]bool)
	watchLater := make(map[int64]bool)
	var ids []int64
	for _, e := range entries {
		if !e.Liked && !e.WatchLater {
			continue
		}
		ids = append(ids, e.EpisodeID)
		if e.Liked {
			liked[e.EpisodeID] = true
		}
		if e.WatchLater {
			watchLater[e.EpisodeID] = true
		}
	}
	if len(ids) == 0 {
		return Library{}, nil
	}

	episodes, err := s.catalog.FetchByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("failed to hydrate library episodes", "error", err)
		return Library{}, err
	}

	s.enrichAll(ctx, episodes)

	var lib Library
	for _, ep := range episodes {
		if liked[ep.ID] {
			lib.Liked = append(lib.Liked, ep)
		}
		if watchLater[ep.ID] {
			lib.WatchLater = append(lib.WatchLater, ep)
		}
	}

	s.logger.Debug("library loaded", "liked", len(lib.Liked), "watchLater", len(lib.WatchLater))
	return lib, nil
}

// enrichAll resolves stream data for every episode with bounded concurrency
// and waits for completion. Failures leave both fields unset.
func (s *Service) enrichAll(ctx context.Context, episodes []*domain.Episode) {
	sem := make(chan struct{}, maxEnrichInFlight)
	var wg sync.WaitGroup

	for _, ep := range episodes {
		if !ep.HasSource() {
			continue
		}
		wg.Add(1)
		go func(ep *domain.Episode) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			info, err := s.resolver.Resolve(ctx, ep.SourceURL)
			if err != nil || info == nil || info.StreamURL == "" || info.ThumbnailURL == "" {
				return
			}
			ep.StreamURL = info.StreamURL
			ep.ThumbnailURL = info.ThumbnailURL
		}(ep)
	}

	wg.Wait()
}
