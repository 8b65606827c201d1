package tui

import (
	"github.com/podscout/podscout/internal/domain"
	"github.com/podscout/podscout/internal/library"
)

// Message types for the TUI

// ErrMsg represents an error from an async operation
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// FeedLoadedMsg signals that a feed page has been fetched and cached
type FeedLoadedMsg struct {
	Category string
	Feed     domain.CategoryFeed
	Reset    bool
}

// FeedTickMsg repaints the browse view so background enrichment shows up
type FeedTickMsg struct{}

// LibraryLoadedMsg signals that the liked/watch-later lists are ready
type LibraryLoadedMsg struct {
	Library library.Library
}

// StatusUpdatedMsg signals that a like/watch-later toggle round-tripped
type StatusUpdatedMsg struct {
	Status domain.LibraryStatus
}

// SubmitDoneMsg signals that a catalog submission was accepted
type SubmitDoneMsg struct {
	Episode *domain.Episode
}

// PrefillDoneMsg carries form fields extracted from an RSS feed
type PrefillDoneMsg struct {
	Submission domain.Submission
}

// StatusMsg sets a temporary status bar message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
