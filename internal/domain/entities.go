package domain

import "strings"

// Episode represents a single podcast/video entry from the catalog.
type Episode struct {
	ID          int64  `json:"id"`          // Backend-assigned identifier, immutable
	Title       string `json:"title"`       // Display title
	Author      string `json:"author"`      // Host / channel name
	Description string `json:"description"` // Episode synopsis
	SourceURL   string `json:"source_url"`  // Original video URL (usually YouTube), may be empty
	Language    string `json:"language"`    // ISO-ish language label, may be empty

	// Populated only by enrichment, never by the catalog fetch.
	StreamURL    string `json:"stream_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Enriched reports whether stream resolution has completed for this episode.
func (e *Episode) Enriched() bool {
	return e.StreamURL != "" && e.ThumbnailURL != ""
}

// HasSource reports whether the episode carries a resolvable source URL.
func (e *Episode) HasSource() bool {
	return strings.TrimSpace(e.SourceURL) != ""
}

// CategoryFeed holds the pagination state and fetched items for one category.
// Items are in fetch order, which is newest-first per the backend ordering.
type CategoryFeed struct {
	Items      []*Episode
	NextOffset int
	HasMore    bool
}

// Sections is the fixed windowing the browse screen applies over a feed.
// It is presentation-layer slicing, not catalog state.
type Sections struct {
	Featured    []*Episode // items 0-4
	Trending    []*Episode // items 5-7
	Recent      []*Episode // items 8-13
	Recommended []*Episode // random pick of 4 from items 14+
}

// LibraryStatus is one user's relationship to one episode.
type LibraryStatus struct {
	EpisodeID  int64
	UserID     string
	Liked      bool
	WatchLater bool
}

// StreamInfo is the result of resolving a source URL into playable media.
type StreamInfo struct {
	StreamURL    string
	ThumbnailURL string
	Title        string
	Duration     float64 // seconds
}

// Submission is a user-contributed catalog entry prior to acceptance.
type Submission struct {
	Title       string
	Author      string
	Description string
	YouTubeURL  string
	Duration    string
	Category    string
	IsExplicit  bool
	Language    string
	Tags        string
	Website     string
	RSSURL      string
}

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "All"

// Categories lists the labels the catalog partitions content by.
var Categories = []string{
	CategoryAll, "Technology", "Business", "Comedy", "Education", "News",
	"Health", "Sports", "Arts", "Science", "History", "Music", "True Crime",
	"Politics", "Religion", "Self-Help",
}

// IsYouTubeURL reports whether url points at YouTube. Submissions and the
// resolver both enforce this before doing any work.
func IsYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}
