package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("#22D3EE")
	colorPurple = lipgloss.Color("#A855F7")
	colorPink   = lipgloss.Color("#EC4899")
	colorNeon   = lipgloss.Color("#4ADE80")
	colorText   = lipgloss.Color("#F8FAFC")
	colorMuted  = lipgloss.Color("#94A3B8")
	colorDim    = lipgloss.Color("#475569")
)

var (
	logoStyle   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	readyStyle  = lipgloss.NewStyle().Foreground(colorNeon).Bold(true)
	limitStyle  = lipgloss.NewStyle().Foreground(colorPink).Bold(true)
	soloStyle   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	duoStyle    = lipgloss.NewStyle().Foreground(colorPurple).Bold(true)
	activeSlot  = lipgloss.NewStyle().Foreground(colorText).Background(colorPurple).Padding(0, 1)
	idleSlot    = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	gaugeFull   = lipgloss.NewStyle().Foreground(colorCyan)
	gaugeLimit  = lipgloss.NewStyle().Foreground(colorPink)
	gaugeEmpty  = lipgloss.NewStyle().Foreground(colorDim)
	toastStyle  = lipgloss.NewStyle().Foreground(colorText).Background(colorPink).Bold(true).Padding(0, 2)
	noticeStyle = lipgloss.NewStyle().Foreground(colorNeon)

	editorStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)
)
