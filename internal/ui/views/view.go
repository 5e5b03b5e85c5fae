package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout of the screen, top to bottom:
//
//	line 0      title
//	lines 1-3   bordered search input
//	line 4..    suggestion rows, one line each
//	then        blank line, status, help
const (
	inputTop  = 1
	inputRows = 3

	// ListTop is the screen row of the first suggestion
	ListTop = inputTop + inputRows

	// chrome counts the lines that are not suggestion rows
	chrome = ListTop + 3
)

const (
	minBoxWidth = 20
	maxBoxWidth = 80
)

// SearchView is everything needed to draw one frame
type SearchView struct {
	Title       string
	Input       string
	Focused     bool
	Suggestions []string
	Hidden      bool
	Hover       int // -1 when the pointer is not over a row
	MaxRows     int // 0 renders every row that fits
	Width       int
	Height      int
	Status      string
	Help        string
}

// Renderer draws the search screen
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	if styles == nil {
		styles = NewStyles()
	}
	return &Renderer{styles: styles}
}

// Styles returns the renderer styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// BoxWidth is the outer width of the input box and the dropdown for a
// terminal of the given width
func BoxWidth(termWidth int) int {
	w := termWidth - 2
	if w > maxBoxWidth {
		w = maxBoxWidth
	}
	if w < minBoxWidth {
		w = minBoxWidth
	}
	return w
}

// InputWidth is the number of cells available to the text input
func InputWidth(termWidth int) int {
	// border (2) + padding (2) + cursor
	return BoxWidth(termWidth) - 5
}

// VisibleRows returns how many of n suggestions are drawn
func VisibleRows(n, maxRows, height int) int {
	rows := n
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}
	if height > 0 {
		fit := height - chrome
		if fit < 1 {
			fit = 1
		}
		if rows > fit {
			rows = fit
		}
	}
	if rows < 0 {
		rows = 0
	}
	return rows
}

// RowAt maps a screen position to a drawn suggestion index, or -1
func RowAt(x, y int, v SearchView) int {
	if v.Hidden {
		return -1
	}
	if x < 0 || x >= BoxWidth(v.Width) {
		return -1
	}
	idx := y - ListTop
	if idx < 0 || idx >= VisibleRows(len(v.Suggestions), v.MaxRows, v.Height) {
		return -1
	}
	return idx
}

// Render draws the frame
func (r *Renderer) Render(v SearchView) string {
	var b strings.Builder
	boxWidth := BoxWidth(v.Width)

	b.WriteString(r.styles.Title.Render(v.Title))
	b.WriteString("\n")

	box := r.styles.InputBoxBlur
	if v.Focused {
		box = r.styles.InputBox
	}
	b.WriteString(box.Width(boxWidth - 2).Render(v.Input))
	b.WriteString("\n")

	if !v.Hidden {
		rows := VisibleRows(len(v.Suggestions), v.MaxRows, v.Height)
		for i := 0; i < rows; i++ {
			b.WriteString(r.renderRow(v.Suggestions[i], i == v.Hover, boxWidth))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(r.styles.Status.Render(v.Status))
	if v.Help != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Help.Render(v.Help))
	}

	return b.String()
}

// renderRow draws one suggestion, cut with an ellipsis to the box width
func (r *Renderer) renderRow(text string, over bool, width int) string {
	style := r.styles.Suggestion
	if over {
		style = r.styles.SuggestionOver
	}
	inner := width - style.GetHorizontalPadding()
	if inner < 1 {
		inner = 1
	}
	line := strings.ReplaceAll(text, "\n", " ")
	if lipgloss.Width(line) > inner {
		line = ansi.Truncate(line, inner, "…")
	}
	return style.Width(width).Render(line)
}
