package ui

import (
	"tablesearch/internal/eventbus"
	"tablesearch/internal/search"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// listChangedMsg asks for a repaint after the suggestion list changed
// outside of Update
type listChangedMsg struct{}

// submitResultMsg contains the outcome of a form submission
type submitResultMsg struct {
	query  string
	result search.SubmitResult
	err    error
}

// helpPagerMsg contains the result of the help pager
type helpPagerMsg struct {
	err error
}
