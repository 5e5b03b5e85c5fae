package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tablesearch/internal/config"
	"tablesearch/internal/domain"
	"tablesearch/internal/eventbus"
	"tablesearch/internal/search"
	"tablesearch/internal/suggest"
	"tablesearch/internal/ui/views"
)

// submitTimeout bounds the form post; the page is being left at that point
const submitTimeout = 30 * time.Second

// Submitter posts the search form
type Submitter interface {
	Submit(ctx context.Context, query string) (search.SubmitResult, error)
}

// Result is how the session ended
type Result struct {
	Query      string
	Submitted  bool // false when the program was quit or no form is configured
	Quit       bool
	StatusCode int
	Location   string
	Err        error
}

// Model represents the UI state
type Model struct {
	cfg       *config.Config
	bus       eventbus.EventBus
	ctrl      *suggest.Controller
	submitter Submitter

	input textinput.Model
	list  *listElement

	focused         bool
	hover           int
	submitRequested bool
	submitting      bool
	status          string
	result          Result

	width  int
	height int
	help   help.Model
	keys   keyMap

	renderer     *views.Renderer
	helpRenderer *HelpRenderer

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates the search screen and attaches the suggestion controller
// to it. submitter may be nil, in which case a chosen query ends the program
// without posting anything.
func NewModel(cfg *config.Config, bus eventbus.EventBus, querier suggest.Querier, submitter Submitter) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = cfg.UISettings.Placeholder
	ti.Focus()

	m := &Model{
		cfg:          cfg,
		bus:          bus,
		submitter:    submitter,
		input:        ti,
		list:         newListElement(),
		focused:      true,
		hover:        -1,
		help:         help.New(),
		keys:         defaultKeyMap(),
		renderer:     views.NewRenderer(nil),
		helpRenderer: NewHelpRenderer(),
	}
	m.status = fmt.Sprintf("%s · %s", cfg.Search.ObjectType, cfg.Search.URL)

	opts := []suggest.Option{suggest.WithDelay(cfg.Debounce())}
	if bus != nil {
		opts = append(opts, suggest.WithBus(bus))
	}
	m.ctrl = suggest.Attach(suggest.Elements{
		Container: m,
		Input:     inputElement{ti: &m.input},
		List:      m.list,
		Form:      formElement{m: m},
	}, cfg.Suggest(), querier, opts...)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.list.setNotify(p.Send)
}

// Result returns how the session ended
func (m *Model) Result() Result {
	return m.result
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = views.InputWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.FocusMsg:
		m.focusIn()
		return m, nil

	case tea.BlurMsg:
		m.focusOut()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case listChangedMsg:
		items, _ := m.list.Snapshot()
		if m.hover >= len(items) {
			m.hover = -1
		}
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case submitResultMsg:
		m.result = Result{
			Query:      msg.query,
			Submitted:  msg.err == nil,
			StatusCode: msg.result.StatusCode,
			Location:   msg.result.Location,
			Err:        msg.err,
		}
		if msg.err != nil {
			log.Printf("Search form submit failed: %v", msg.err)
		}
		if m.bus != nil {
			m.bus.Publish(domain.FormSubmittedEvent{
				Query:      msg.query,
				StatusCode: msg.result.StatusCode,
				Location:   msg.result.Location,
				Err:        msg.err,
			})
		}
		return m, tea.Quit

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		if key.Matches(msg, m.keys.Quit) {
			m.result.Quit = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		m.result = Result{Query: m.input.Value(), Quit: true}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		return m, m.showHelp()

	case key.Matches(msg, m.keys.Focus):
		if m.focused {
			m.focusOut()
		} else {
			m.focusIn()
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if !m.focused {
			return m, nil
		}
		// Plain form submission with whatever was typed
		m.submitRequested = true
		return m, m.takeSubmit()
	}

	if !m.focused {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.KeyUp()
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	v := m.searchView()
	row := views.RowAt(msg.X, msg.Y, v)

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.hover = row

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if row >= 0 {
			m.ctrl.Select(v.Suggestions[row])
			return m, m.takeSubmit()
		}
		if msg.Y >= views.ListTop-3 && msg.Y < views.ListTop {
			m.focusIn()
		} else {
			m.focusOut()
		}
	}

	return m, nil
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch event := e.(type) {
	case domain.SuggestionsReceivedEvent:
		m.status = fmt.Sprintf("%d suggestions for %q (%s)", event.Count, event.Query, event.Elapsed.Round(time.Millisecond))
	case domain.QuerySkippedEvent:
		m.status = fmt.Sprintf("%s · %s", m.cfg.Search.ObjectType, m.cfg.Search.URL)
	}
}

func (m *Model) focusIn() {
	if m.focused {
		return
	}
	m.focused = true
	m.input.Focus()
	m.ctrl.FocusIn()
}

func (m *Model) focusOut() {
	if !m.focused {
		return
	}
	m.focused = false
	m.input.Blur()
	m.hover = -1
	m.ctrl.FocusOut()
}

// takeSubmit turns a pending form submit into a command. Submitting leaves
// the page, so the controller is shut down first.
func (m *Model) takeSubmit() tea.Cmd {
	if !m.submitRequested || m.submitting {
		return nil
	}
	m.submitRequested = false
	m.submitting = true
	m.ctrl.Close()

	query := m.input.Value()
	if m.submitter == nil {
		m.result = Result{Query: query}
		return tea.Quit
	}

	m.status = fmt.Sprintf("Searching %q …", query)
	submitter := m.submitter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		res, err := submitter.Submit(ctx, query)
		return submitResultMsg{query: query, result: res, err: err}
	}
}

// showHelp returns a command that shows help using the ov pager
func (m *Model) showHelp() tea.Cmd {
	content := m.helpRenderer.RenderHelpContent(m.cfg.Search.ObjectType, m.cfg.Search.URL, m.cfg.Search.Archived)
	ops := NewHelpOps(m.program)
	return func() tea.Msg {
		return helpPagerMsg{err: ops.ShowHelpInPager(content)}
	}
}

func (m *Model) title() string {
	title := "Search " + m.cfg.Search.ObjectType
	if m.cfg.Search.Archived {
		title += " (archived)"
	}
	return title
}

func (m *Model) searchView() views.SearchView {
	items, hidden := m.list.Snapshot()
	return views.SearchView{
		Title:       m.title(),
		Input:       m.input.View(),
		Focused:     m.focused,
		Suggestions: items,
		Hidden:      hidden,
		Hover:       m.hover,
		MaxRows:     m.cfg.UISettings.MaxSuggestions,
		Width:       m.width,
		Height:      m.height,
		Status:      m.status,
		Help:        m.help.View(m.keys),
	}
}

// View renders the search screen
func (m *Model) View() string {
	return m.renderer.Render(m.searchView())
}
