package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D4AA")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D4AA"))

	blurredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D4AA")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00D4AA")).
			Padding(1, 2)

	dangerBoxStyle = boxStyle.
			BorderForeground(lipgloss.Color("#FF6B6B"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FFC069")).
			Foreground(lipgloss.Color("#000000"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D4AA")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	selectedStyle = cellStyle.
			Background(lipgloss.Color("#1F3B36"))

	staleStyle = cellStyle.
			Foreground(lipgloss.Color("#666666"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))
)
