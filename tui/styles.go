package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#aad94c"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorError   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#8a9199", Dark: "#565b66"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#a37acc", Dark: "#d2a6ff"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	BoardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	PhaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	MessageStyle = lipgloss.NewStyle().
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	FailureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	DimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// cellStyles colors the letters of the text board view
var cellStyles = map[rune]lipgloss.Style{
	'R': lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
	'T': lipgloss.NewStyle().Bold(true).Foreground(colorError),
	'P': lipgloss.NewStyle().Foreground(colorSuccess),
	'D': lipgloss.NewStyle().Bold(true).Foreground(colorWarning),
	'*': lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	'.': DimStyle,
}

func renderCell(letter rune) string {
	if style, ok := cellStyles[letter]; ok {
		return style.Render(string(letter))
	}
	// Obstacles
	return lipgloss.NewStyle().Foreground(colorDim).Bold(true).Render(string(letter))
}
