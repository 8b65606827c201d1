package feed

import (
	"sync"

	"github.com/podscout/podscout/internal/domain"
)

// Cache maps category labels to their fetched feed state. It is the single
// synchronization point between the paginator, the enricher, and readers;
// entries live for the lifetime of the process and are never persisted.
type Cache struct {
	mu    sync.RWMutex
	feeds map[string]*domain.CategoryFeed
}

func NewCache() *Cache {
	return &Cache{feeds: make(map[string]*domain.CategoryFeed)}
}

// Feed returns a snapshot of the category's state. The returned slice is a
// copy; the episodes themselves are shared but immutable once published
// (enrichment swaps pointers rather than mutating).
func (c *Cache) Feed(category string) (domain.CategoryFeed, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state, ok := c.feeds[category]
	if !ok {
		return domain.CategoryFeed{HasMore: true}, false
	}
	items := make([]*domain.Episode, len(state.Items))
	copy(items, state.Items)
	return domain.CategoryFeed{
		Items:      items,
		NextOffset: state.NextOffset,
		HasMore:    state.HasMore,
	}, true
}

// Replace discards the category's items and installs the given page.
func (c *Cache) Replace(category string, items []*domain.Episode, nextOffset int, hasMore bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.feeds[category] = &domain.CategoryFeed{
		Items:      append([]*domain.Episode(nil), items...),
		NextOffset: nextOffset,
		HasMore:    hasMore,
	}
}

// Append adds a fetched page to the end of the category's items, creating
// the entry if needed.
func (c *Cache) Append(category string, items []*domain.Episode, nextOffset int, hasMore bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.feeds[category]
	if !ok {
		state = &domain.CategoryFeed{}
		c.feeds[category] = state
	}
	state.Items = append(state.Items, items...)
	state.NextOffset = nextOffset
	state.HasMore = hasMore
}

// Invalidate removes the category entry entirely, forcing the next fetch to
// be a full reset.
func (c *Cache) Invalidate(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.feeds, category)
}

// ApplyEnrichment sets the stream and thumbnail URLs on every cached episode
// matching id, across all categories. Writes are id-addressed: a completion
// arriving after the category was invalidated or refreshed finds no matching
// id and is a no-op. Returns true if at least one entry was updated.
func (c *Cache) ApplyEnrichment(id int64, streamURL, thumbnailURL string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	applied := false
	for _, state := range c.feeds {
		for i, ep := range state.Items {
			if ep.ID != id {
				continue
			}
			enriched := *ep
			enriched.StreamURL = streamURL
			enriched.ThumbnailURL = thumbnailURL
			state.Items[i] = &enriched
			applied = true
		}
	}
	return applied
}
