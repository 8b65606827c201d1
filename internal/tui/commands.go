package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/podscout/podscout/internal/domain"
	"github.com/podscout/podscout/internal/feed"
	"github.com/podscout/podscout/internal/library"
	"github.com/podscout/podscout/internal/submit"
)

// Command factories for async operations

// LoadFeedCmd fetches one page for a category. reset discards cached pages.
func LoadFeedCmd(svc *feed.Service, category string, reset bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		state, err := svc.FetchPage(ctx, category, reset)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading feed"}
		}
		return FeedLoadedMsg{Category: category, Feed: state, Reset: reset}
	}
}

// RefreshFeedCmd drops the cached category and refetches from the top.
func RefreshFeedCmd(svc *feed.Service, category string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		state, err := svc.Refresh(ctx, category)
		if err != nil {
			return ErrMsg{Err: err, Context: "refreshing feed"}
		}
		return FeedLoadedMsg{Category: category, Feed: state, Reset: true}
	}
}

// LoadLibraryCmd loads the liked and watch-later lists.
func LoadLibraryCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		lib, err := svc.Load(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading library"}
		}
		return LibraryLoadedMsg{Library: lib}
	}
}

// ToggleCmd flips one library flag on an episode. Exactly one of liked and
// watchLater should be non-nil.
func ToggleCmd(svc *library.Service, episodeID int64, liked, watchLater *bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status, err := svc.Upsert(ctx, episodeID, liked, watchLater)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating library"}
		}
		return StatusUpdatedMsg{Status: status}
	}
}

// SubmitCmd validates and submits a new catalog entry.
func SubmitCmd(svc *submit.Service, sub domain.Submission) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		ep, err := svc.Submit(ctx, sub)
		if err != nil {
			return ErrMsg{Err: err, Context: "submitting podcast"}
		}
		return SubmitDoneMsg{Episode: ep}
	}
}

// PrefillCmd parses an RSS feed and fills submission fields from it.
func PrefillCmd(svc *submit.Service, rssURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sub, err := svc.Prefill(ctx, rssURL)
		if err != nil {
			return ErrMsg{Err: err, Context: "reading RSS feed"}
		}
		return PrefillDoneMsg{Submission: sub}
	}
}

// FeedTickCmd schedules a repaint so enrichment results become visible.
func FeedTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return FeedTickMsg{}
	})
}

// ClearStatusCmd clears the status bar after a delay.
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
