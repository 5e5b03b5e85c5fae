package ui

import (
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputElement exposes the text input to the controller.
// It is only touched from Update.
type inputElement struct {
	ti *textinput.Model
}

func (e inputElement) Value() string {
	return e.ti.Value()
}

func (e inputElement) SetValue(v string) {
	e.ti.SetValue(v)
	e.ti.CursorEnd()
}

// listElement is the suggestion dropdown. The controller writes to it from
// timer goroutines as well as from Update, so state is guarded and a repaint
// is requested for writes that happen off the UI loop.
type listElement struct {
	mu     sync.Mutex
	items  []string
	hidden bool
	notify func(tea.Msg)
}

func newListElement() *listElement {
	return &listElement{hidden: true}
}

func (l *listElement) Replace(items []string) {
	l.mu.Lock()
	l.items = append([]string(nil), items...)
	l.mu.Unlock()
	l.changed()
}

func (l *listElement) Hide() {
	l.mu.Lock()
	l.hidden = true
	l.mu.Unlock()
	l.changed()
}

func (l *listElement) Show() {
	l.mu.Lock()
	l.hidden = false
	l.mu.Unlock()
	l.changed()
}

// Snapshot returns the current items and visibility
func (l *listElement) Snapshot() ([]string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.items...), l.hidden
}

func (l *listElement) setNotify(fn func(tea.Msg)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notify = fn
}

func (l *listElement) changed() {
	l.mu.Lock()
	notify := l.notify
	l.mu.Unlock()
	if notify == nil {
		return
	}
	// Program.Send blocks until Update reads it, and Update may be the caller
	go notify(listChangedMsg{})
}

// formElement records a submit request; Update turns it into a command
type formElement struct {
	m *Model
}

func (f formElement) Submit() {
	f.m.submitRequested = true
}
