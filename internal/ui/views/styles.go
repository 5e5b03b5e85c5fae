package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title          lipgloss.Style
	Status         lipgloss.Style
	Help           lipgloss.Style
	InputBox       lipgloss.Style
	InputBoxBlur   lipgloss.Style
	Suggestion     lipgloss.Style
	SuggestionOver lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:   lipgloss.NewStyle().Faint(true),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		InputBoxBlur: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		// gray-200 rows, gray-300 under the pointer, gray-800 text
		Suggestion: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")).
			Background(lipgloss.Color("254")).
			Padding(0, 2),
		SuggestionOver: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")).
			Background(lipgloss.Color("250")).
			Padding(0, 2),
	}
}
