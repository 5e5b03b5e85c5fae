package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent generates the help text shown in the pager
func (r *HelpRenderer) RenderHelpContent(objectType, url string, archived bool) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	line := func(k, desc string) string {
		return fmt.Sprintf("  %-12s %s\n", keyStyle.Render(k), descStyle.Render(desc))
	}

	var help strings.Builder

	help.WriteString(titleStyle.Render("Table Search Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Searching"))
	help.WriteString("\n")
	help.WriteString(line("type", "Suggestions appear after a short pause"))
	help.WriteString(line("click", "Pick a suggestion and run the search"))
	help.WriteString(line("enter", "Run the search with the typed text"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Focus"))
	help.WriteString("\n")
	help.WriteString(line("tab", "Leave or enter the search box (hides or shows suggestions)"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(line("f1", "Show this help"))
	help.WriteString(line("esc, ctrl+c", "Quit"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Endpoint"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  object type  %s\n", objectType))
	help.WriteString(fmt.Sprintf("  url          %s\n", url))
	help.WriteString(fmt.Sprintf("  archived     %t", archived))

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Restore the terminal even if ov fails
	defer func() {
		// Give ov time to leave the alternate screen
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
