package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#E0AF68")
	colorTeal      = lipgloss.Color("#73DACA")
	colorAccent    = lipgloss.Color("#BB9AF7")
	colorMuted     = lipgloss.Color("#737AA2")
	colorSuccess   = lipgloss.Color("#9ECE6A")
	colorWarning   = lipgloss.Color("#FF9E64")
	colorError     = lipgloss.Color("#F7768E")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#3B4261")
	colorHighlight = lipgloss.Color("#7DCFFF")
)

// priorityColors follows the reminder panel dots: high is red, none is
// nearly invisible.
var priorityColors = map[string]lipgloss.Color{
	"high":   colorError,
	"medium": colorWarning,
	"low":    colorTeal,
	"none":   colorSubtle,
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	titleStyle     = fg(colorFg).Bold(true)
	accentStyle    = fg(colorAccent)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)
	completedStyle = mutedStyle.Strikethrough(true)
	timerStyle     = fg(colorPrimary).Bold(true).Align(lipgloss.Center)

	normalItemStyle   = fg(colorFg)
	selectedItemStyle = fg(colorPrimary).Bold(true)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)
)

// Tabs across the header and the filter bar of the reminder list.
var (
	activeTabStyle = fg(colorPrimary).Bold(true).Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary)
	inactiveTabStyle = mutedStyle.Padding(0, 2)

	filterActiveStyle   = fg(colorFg).Background(colorSubtle).Bold(true).Padding(0, 1)
	filterInactiveStyle = mutedStyle.Padding(0, 1)
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)
)

// Month grid cells are cellWidth wide so seven of them line up under the
// weekday header.
var (
	dayStyle           = fg(colorFg).Width(cellWidth)
	otherMonthDayStyle = dayStyle.Foreground(colorSubtle)
	todayCellStyle     = dayStyle.Foreground(colorSuccess).Bold(true)
	cursorCellStyle    = dayStyle.Background(colorPrimary).Foreground(lipgloss.Color("#1A1B26")).Bold(true)
)

func priorityDot(p string) string {
	c, ok := priorityColors[p]
	if !ok {
		c = colorSubtle
	}
	return fg(c).Render("●")
}
