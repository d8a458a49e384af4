package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var snippetStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(lipgloss.Color("240")).
	PaddingLeft(1)

const (
	markOK   = "✓"
	markFail = "✗"
	markSkip = "·"
	rule     = "──────────────────────────────────────────────────"
)

// swatchBlock renders a hex color as a two-cell block in that color.
func swatchBlock(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
