package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/podscout/podscout/internal/domain"
	"github.com/podscout/podscout/internal/feed"
	"github.com/podscout/podscout/internal/library"
	"github.com/podscout/podscout/internal/search"
	"github.com/podscout/podscout/internal/submit"
)

// ViewMode selects which screen the application is showing
type ViewMode int

const (
	ModeBrowse ViewMode = iota
	ModeLibrary
	ModeSubmit
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	FeedSvc    *feed.Service
	LibrarySvc *library.Service
	SubmitSvc  *submit.Service
	SearchSvc  *search.Service

	Keys   KeyMap
	Logger *slog.Logger

	// Screen state
	Mode        ViewMode
	CategoryIdx int
	Cursor      int

	// Browse data. Sections are recomputed on every page fetch so the
	// recommended picks stay stable between repaints.
	Feed     domain.CategoryFeed
	Sections domain.Sections
	visible  []row

	// Library data
	Library  library.Library
	statuses map[int64]domain.LibraryStatus

	// Filter state
	Filtering   bool
	FilterInput textinput.Model
	filterQuery string

	// Submit form
	Form submitForm

	// Chrome
	Width     int
	Height    int
	StatusMsg string
	StatusErr bool
	Loading   bool
}

// row is one selectable or decorative line in the episode list
type row struct {
	Header  string // section header text, exclusive with Episode
	Episode *domain.Episode
}

// NewModel creates the application model
func NewModel(feedSvc *feed.Service, librarySvc *library.Service, submitSvc *submit.Service, searchSvc *search.Service, logger *slog.Logger) Model {
	input := textinput.New()
	input.Placeholder = "filter by title or author"
	input.Prompt = "/ "
	input.CharLimit = 80

	m := Model{
		FeedSvc:     feedSvc,
		LibrarySvc:  librarySvc,
		SubmitSvc:   submitSvc,
		SearchSvc:   searchSvc,
		Keys:        DefaultKeyMap(),
		Logger:      logger,
		FilterInput: input,
		Form:        newSubmitForm(),
		statuses:    make(map[int64]domain.LibraryStatus),
	}

	// Seed library marks from the on-disk snapshot so the first paint
	// already shows hearts without a network round trip.
	if cached, ok := librarySvc.Cached(); ok {
		for _, st := range cached {
			m.statuses[st.EpisodeID] = st
		}
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadFeedCmd(m.FeedSvc, m.category(), false),
		FeedTickCmd(),
	)
}

func (m Model) category() string {
	return domain.Categories[m.CategoryIdx]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FeedLoadedMsg:
		m.Loading = false
		if msg.Category != m.category() {
			return m, nil
		}
		m.Feed = msg.Feed
		m.Sections = m.FeedSvc.Sections(msg.Category)
		if msg.Reset {
			m.Cursor = 0
		}
		m.rebuildRows()
		return m, nil

	case FeedTickMsg:
		if m.Mode == ModeBrowse {
			m.refreshFromCache()
		}
		return m, FeedTickCmd()

	case LibraryLoadedMsg:
		m.Loading = false
		m.Library = msg.Library
		for _, ep := range msg.Library.Liked {
			st := m.statuses[ep.ID]
			st.EpisodeID = ep.ID
			st.Liked = true
			m.statuses[ep.ID] = st
		}
		for _, ep := range msg.Library.WatchLater {
			st := m.statuses[ep.ID]
			st.EpisodeID = ep.ID
			st.WatchLater = true
			m.statuses[ep.ID] = st
		}
		if m.Mode == ModeLibrary {
			m.Cursor = 0
			m.rebuildRows()
		}
		return m, nil

	case StatusUpdatedMsg:
		m.statuses[msg.Status.EpisodeID] = msg.Status
		return m, nil

	case SubmitDoneMsg:
		m.Mode = ModeBrowse
		m.Form = newSubmitForm()
		m.rebuildRows()
		return m.setStatus("Submitted \""+msg.Episode.Title+"\"", false)

	case PrefillDoneMsg:
		m.Form.apply(msg.Submission)
		return m.setStatus("Prefilled from RSS feed", false)

	case ErrMsg:
		m.Loading = false
		return m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusErr = isErr
	return m, ClearStatusCmd(4 * time.Second)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The filter input and the submit form capture most keys while active.
	if m.Filtering {
		return m.handleFilterKey(msg)
	}
	if m.Mode == ModeSubmit {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.Keys.PrevTab):
		if m.Mode == ModeBrowse {
			return m.switchCategory(-1)
		}

	case key.Matches(msg, m.Keys.NextTab):
		if m.Mode == ModeBrowse {
			return m.switchCategory(1)
		}

	case key.Matches(msg, m.Keys.LoadMore):
		if m.Mode == ModeBrowse && m.Feed.HasMore {
			m.Loading = true
			return m, LoadFeedCmd(m.FeedSvc, m.category(), false)
		}

	case key.Matches(msg, m.Keys.Refresh):
		if m.Mode == ModeBrowse {
			m.Loading = true
			return m, RefreshFeedCmd(m.FeedSvc, m.category())
		}
		if m.Mode == ModeLibrary {
			m.Loading = true
			return m, LoadLibraryCmd(m.LibrarySvc)
		}

	case key.Matches(msg, m.Keys.Filter):
		m.Filtering = true
		m.FilterInput.SetValue("")
		m.FilterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.Keys.Like):
		if ep := m.selected(); ep != nil {
			desired := !m.statuses[ep.ID].Liked
			return m, ToggleCmd(m.LibrarySvc, ep.ID, &desired, nil)
		}

	case key.Matches(msg, m.Keys.WatchLater):
		if ep := m.selected(); ep != nil {
			desired := !m.statuses[ep.ID].WatchLater
			return m, ToggleCmd(m.LibrarySvc, ep.ID, nil, &desired)
		}

	case key.Matches(msg, m.Keys.Library):
		if m.Mode != ModeLibrary {
			m.Mode = ModeLibrary
			m.Loading = true
			m.Cursor = 0
			m.rebuildRows()
			return m, LoadLibraryCmd(m.LibrarySvc)
		}

	case key.Matches(msg, m.Keys.SubmitForm):
		m.Mode = ModeSubmit
		return m, m.Form.focusFirst()

	case key.Matches(msg, m.Keys.Escape):
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.Cursor = 0
			m.rebuildRows()
			return m, nil
		}
		if m.Mode != ModeBrowse {
			m.Mode = ModeBrowse
			m.Cursor = 0
			m.rebuildRows()
		}
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Escape):
		m.Filtering = false
		m.filterQuery = ""
		m.FilterInput.Blur()
		m.rebuildRows()
		return m, nil

	case key.Matches(msg, m.Keys.Confirm):
		m.Filtering = false
		m.FilterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	m.filterQuery = m.FilterInput.Value()
	m.Cursor = 0
	m.rebuildRows()
	return m, cmd
}

func (m Model) switchCategory(delta int) (tea.Model, tea.Cmd) {
	n := len(domain.Categories)
	m.CategoryIdx = (m.CategoryIdx + delta + n) % n
	m.Cursor = 0
	m.filterQuery = ""

	// Show whatever is cached immediately, then fetch if nothing is.
	if state, ok := m.FeedSvc.Feed(m.category()); ok && len(state.Items) > 0 {
		m.Feed = state
		m.Sections = m.FeedSvc.Sections(m.category())
		m.rebuildRows()
		return m, nil
	}
	m.Loading = true
	m.rebuildRows()
	return m, LoadFeedCmd(m.FeedSvc, m.category(), false)
}

// moveCursor skips header rows so the selection always lands on an episode.
func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	i := m.Cursor
	for {
		i += delta
		if i < 0 || i >= len(m.visible) {
			return
		}
		if m.visible[i].Episode != nil {
			m.Cursor = i
			return
		}
	}
}

func (m Model) selected() *domain.Episode {
	if m.Cursor < 0 || m.Cursor >= len(m.visible) {
		return nil
	}
	return m.visible[m.Cursor].Episode
}

// rebuildRows regenerates the visible row list for the current mode. Browse
// filtering goes through the ranked search service; the library view filters
// its already-loaded lists locally.
func (m *Model) rebuildRows() {
	switch m.Mode {
	case ModeLibrary:
		if m.filterQuery != "" {
			items := append([]*domain.Episode{}, m.Library.Liked...)
			items = append(items, m.Library.WatchLater...)
			m.visible = filterRows(items, m.filterQuery)
		} else {
			m.visible = libraryRows(m.Library)
		}
	default:
		if m.filterQuery != "" {
			m.visible = searchRows(m.SearchSvc.Filter(m.category(), m.filterQuery))
		} else {
			m.visible = sectionRows(m.Sections)
		}
	}
	m.clampCursor()
}

func searchRows(results []search.Result) []row {
	rows := make([]row, 0, len(results))
	for _, r := range results {
		rows = append(rows, row{Episode: r.Episode})
	}
	return rows
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.visible) {
		m.Cursor = len(m.visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	// Land on an episode row, not a header.
	if m.Cursor < len(m.visible) && m.visible[m.Cursor].Episode == nil {
		m.moveCursor(1)
	}
}

// refreshFromCache swaps freshly enriched episode pointers into the rows
// without disturbing section composition or the cursor.
func (m *Model) refreshFromCache() {
	state, ok := m.FeedSvc.Feed(m.category())
	if !ok {
		return
	}
	byID := make(map[int64]*domain.Episode, len(state.Items))
	for _, ep := range state.Items {
		byID[ep.ID] = ep
	}
	m.Feed = state
	for i := range m.visible {
		if m.visible[i].Episode == nil {
			continue
		}
		if fresh, ok := byID[m.visible[i].Episode.ID]; ok {
			m.visible[i].Episode = fresh
		}
	}
}

// sectionRows flattens the browse sections into a renderable row list.
func sectionRows(s domain.Sections) []row {
	var rows []row
	appendSection := func(name string, eps []*domain.Episode) {
		if len(eps) == 0 {
			return
		}
		rows = append(rows, row{Header: name})
		for _, ep := range eps {
			rows = append(rows, row{Episode: ep})
		}
	}
	appendSection("Featured", s.Featured)
	appendSection("Trending", s.Trending)
	appendSection("Recent", s.Recent)
	appendSection("Recommended", s.Recommended)
	return rows
}

func libraryRows(lib library.Library) []row {
	var rows []row
	appendSection := func(name string, eps []*domain.Episode) {
		rows = append(rows, row{Header: name})
		for _, ep := range eps {
			rows = append(rows, row{Episode: ep})
		}
	}
	appendSection("Liked", lib.Liked)
	appendSection("Watch Later", lib.WatchLater)
	return rows
}
