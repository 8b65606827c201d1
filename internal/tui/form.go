package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/podscout/podscout/internal/domain"
)

// Field order in the submission form. RSS feed comes first so a prefill can
// fill the rest.
const (
	fieldRSS = iota
	fieldTitle
	fieldAuthor
	fieldDescription
	fieldYouTube
	fieldDuration
	fieldCategory
	fieldLanguage
	fieldTags
	fieldWebsite
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"RSS feed",
	"Title",
	"Author",
	"Description",
	"YouTube URL",
	"Duration",
	"Category",
	"Language",
	"Tags",
	"Website",
}

// submitForm is the state of the podcast submission screen
type submitForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newSubmitForm() submitForm {
	var f submitForm
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 200
		in.Prompt = ""
		f.inputs[i] = in
	}
	f.inputs[fieldDescription].CharLimit = 1000
	f.inputs[fieldDuration].Placeholder = "e.g. 42:10"
	f.inputs[fieldCategory].Placeholder = "Technology"
	return f
}

func (f *submitForm) focusFirst() tea.Cmd {
	f.focus = 0
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.inputs[0].Focus()
	return textinput.Blink
}

func (f *submitForm) advance(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
	return textinput.Blink
}

// apply fills the form fields from a prefilled submission. Fields the feed
// did not carry are left as the user typed them.
func (f *submitForm) apply(sub domain.Submission) {
	set := func(field int, value string) {
		if value != "" {
			f.inputs[field].SetValue(value)
		}
	}
	set(fieldTitle, sub.Title)
	set(fieldAuthor, sub.Author)
	set(fieldDescription, sub.Description)
	set(fieldLanguage, sub.Language)
	set(fieldTags, sub.Tags)
	set(fieldWebsite, sub.Website)
	set(fieldRSS, sub.RSSURL)
}

func (f *submitForm) submission() domain.Submission {
	return domain.Submission{
		Title:       f.inputs[fieldTitle].Value(),
		Author:      f.inputs[fieldAuthor].Value(),
		Description: f.inputs[fieldDescription].Value(),
		YouTubeURL:  f.inputs[fieldYouTube].Value(),
		Duration:    f.inputs[fieldDuration].Value(),
		Category:    f.inputs[fieldCategory].Value(),
		Language:    f.inputs[fieldLanguage].Value(),
		Tags:        f.inputs[fieldTags].Value(),
		Website:     f.inputs[fieldWebsite].Value(),
		RSSURL:      f.inputs[fieldRSS].Value(),
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Escape):
		m.Mode = ModeBrowse
		m.rebuildRows()
		return m, nil

	case key.Matches(msg, m.Keys.NextField):
		return m, m.Form.advance(1)

	case msg.String() == "shift+tab":
		return m, m.Form.advance(-1)

	case msg.String() == "ctrl+p":
		rss := m.Form.inputs[fieldRSS].Value()
		if rss == "" {
			return m.setStatus("RSS feed field is empty", true)
		}
		return m, PrefillCmd(m.SubmitSvc, rss)

	case key.Matches(msg, m.Keys.Confirm):
		sub := m.Form.submission()
		if err := m.SubmitSvc.Validate(sub); err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.Loading = true
		return m, SubmitCmd(m.SubmitSvc, sub)
	}

	var cmd tea.Cmd
	m.Form.inputs[m.Form.focus], cmd = m.Form.inputs[m.Form.focus].Update(msg)
	return m, cmd
}
