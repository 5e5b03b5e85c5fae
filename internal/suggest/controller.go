// Package suggest implements the debounced search suggestion controller of the
// table search widget.
//
// The controller owns one debounce timer. Every keystroke cancels the pending
// timer and arms a new one carrying the input value at that moment. When the
// timer fires, a blank query hides the list; anything else is posted to the
// search endpoint and a 200 answer replaces the list content and shows it.
// Any other outcome leaves the list alone.
//
// Requests are never cancelled once sent. Two overlapping requests may
// resolve out of order, and whichever response arrives last is what the list
// shows. Focus changes can race with that too: a response that arrives after
// focus-out shows the list again.
package suggest

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tablesearch/internal/domain"
	"tablesearch/internal/eventbus"
)

// DefaultDelay is the quiescence interval before a query is sent
const DefaultDelay = 300 * time.Millisecond

// Controller wires the search input, the suggestion list and the form together.
// A nil *Controller is valid and ignores every event, which is what a page
// without the search widget gets from Attach.
type Controller struct {
	el      Elements
	cfg     Config
	querier Querier
	bus     eventbus.EventBus
	delay   time.Duration
	newID   func() string

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// Option configures a Controller
type Option func(*Controller)

// WithDelay overrides DefaultDelay
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithBus publishes controller events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(c *Controller) {
		c.bus = bus
	}
}

// WithIDGenerator replaces the query ID source used on events
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Attach binds a controller to the given elements. It returns nil when the
// search container is absent, leaving the feature inactive.
func Attach(el Elements, cfg Config, q Querier, opts ...Option) *Controller {
	if el.Container == nil {
		return nil
	}
	if el.Input == nil || el.List == nil || q == nil {
		log.Printf("Search container present but input, list or querier missing; suggestions disabled")
		return nil
	}

	c := &Controller{
		el:      el,
		cfg:     cfg,
		querier: q,
		delay:   DefaultDelay,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the configuration the controller was attached with
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// pendingQuery is everything captured when the timer is armed
type pendingQuery struct {
	id         string
	url        string
	objectType string
	query      string
	archived   bool
}

// KeyUp handles a keystroke in the search input: the pending query, if any,
// is cancelled and a new one is scheduled with the current input value.
func (c *Controller) KeyUp() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}

	p := pendingQuery{
		id:         c.newID(),
		url:        c.cfg.URL,
		objectType: c.cfg.ObjectType,
		query:      c.el.Input.Value(),
		archived:   c.cfg.Archived,
	}

	var t *time.Timer
	t = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		// A newer keystroke or Close got here first
		if c.timer != t || c.closed {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.mu.Unlock()

		c.run(p)
	})
	c.timer = t

	c.publish(domain.QueryScheduledEvent{ID: p.id, Query: p.query, Delay: c.delay})
}

// Pending reports whether a query is waiting for its timer
func (c *Controller) Pending() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// run executes a fired query
func (c *Controller) run(p pendingQuery) {
	if strings.TrimSpace(p.query) == "" {
		c.el.List.Hide()
		c.publish(domain.QuerySkippedEvent{ID: p.id})
		return
	}

	start := time.Now()
	results, err := c.querier.Query(context.Background(), p.url, p.objectType, p.query, p.archived)
	if err != nil {
		log.Printf("Suggestion query %s for '%s' failed: %v", p.id, p.query, err)
		c.publish(domain.QueryFailedEvent{ID: p.id, Query: p.query, Err: err})
		return
	}

	titles := domain.QueryResponse{Data: results}.Titles()
	c.el.List.Replace(titles)
	c.el.List.Show()

	c.publish(domain.SuggestionsReceivedEvent{
		ID:      p.id,
		Query:   p.query,
		Count:   len(titles),
		Elapsed: time.Since(start),
	})
}

// FocusOut hides the suggestion list
func (c *Controller) FocusOut() {
	if c == nil {
		return
	}
	c.el.List.Hide()
}

// FocusIn shows the suggestion list, whatever it contains
func (c *Controller) FocusIn() {
	if c == nil {
		return
	}
	c.el.List.Show()
}

// Select handles a pointer-down on a suggestion: the text goes into the
// input and the form is submitted right away.
func (c *Controller) Select(text string) {
	if c == nil {
		return
	}
	c.el.Input.SetValue(text)
	c.publish(domain.SuggestionSelectedEvent{Text: text})
	if c.el.Form != nil {
		c.el.Form.Submit()
	}
}

// Close cancels the pending query. Requests already in flight still complete.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) publish(e domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
