package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent     = lipgloss.Color("#C084FC")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Category tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Accent).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Section headers in the browse view
var SectionHeaderStyle = lipgloss.NewStyle().
	Foreground(Accent).
	Bold(true).
	MarginTop(1)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Raw status characters (unstyled)
const (
	LikedChar      = "♥"
	WatchLaterChar = "◷"
	PendingChar    = "…"
	ReadyChar      = "▶"
)

// Pre-rendered status indicators
var (
	LikedMark      = lipgloss.NewStyle().Foreground(Red).Render(LikedChar)
	WatchLaterMark = lipgloss.NewStyle().Foreground(Accent).Render(WatchLaterChar)
	PendingMark    = lipgloss.NewStyle().Foreground(DimGray).Render(PendingChar)
	ReadyMark      = lipgloss.NewStyle().Foreground(Green).Render(ReadyChar)
)

// Form and footer styles
var (
	FormLabelStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Width(14)

	FooterStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	StatusBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
)
