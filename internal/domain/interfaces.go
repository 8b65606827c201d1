package domain

import "context"

// CatalogRepository provides access to the hosted episode catalog.
type CatalogRepository interface {
	// FetchPage returns one page of base records ordered by creation time
	// descending. category may be CategoryAll to disable filtering. The
	// returned episodes never carry stream or thumbnail URLs.
	FetchPage(ctx context.Context, category string, offset, limit int) ([]*Episode, error)

	// FetchByIDs returns the base records matching the given ids, used to
	// hydrate the user's library lists.
	FetchByIDs(ctx context.Context, ids []int64) ([]*Episode, error)

	// Submit posts a new catalog entry and returns the created record.
	Submit(ctx context.Context, sub Submission) (*Episode, error)
}

// LibraryRepository reads and writes the per-user liked/watch-later state.
type LibraryRepository interface {
	// Upsert writes the non-nil flags for (episodeID, current user) and
	// returns the full resulting state. Calling with both flags nil performs
	// a pure read.
	Upsert(ctx context.Context, episodeID int64, liked, watchLater *bool) (LibraryStatus, error)

	// Entries returns every library row for the current user.
	Entries(ctx context.Context) ([]LibraryStatus, error)
}

// StreamResolver turns a source video URL into playable media URLs.
type StreamResolver interface {
	// Resolve returns nil info (not an error) when the source cannot be
	// resolved; enrichment treats that as "leave the episode untouched".
	Resolve(ctx context.Context, sourceURL string) (*StreamInfo, error)
}

// SessionStore persists the signed-in session across runs.
type SessionStore interface {
	GetSession() (*Session, bool)
	SaveSession(s *Session) error
	ClearSession() error
}
