package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryScheduled      EventType = "QueryScheduled"
	EventQuerySkipped        EventType = "QuerySkipped"
	EventSuggestionsReceived EventType = "SuggestionsReceived"
	EventQueryFailed         EventType = "QueryFailed"
	EventSuggestionSelected  EventType = "SuggestionSelected"
	EventFormSubmitted       EventType = "FormSubmitted"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryScheduledEvent is emitted when a keystroke (re)arms the debounce timer
type QueryScheduledEvent struct {
	ID    string
	Query string
	Delay time.Duration
}

func (e QueryScheduledEvent) Type() EventType { return EventQueryScheduled }

// QuerySkippedEvent is emitted when the timer fires on a blank query
type QuerySkippedEvent struct {
	ID string
}

func (e QuerySkippedEvent) Type() EventType { return EventQuerySkipped }

// SuggestionsReceivedEvent is emitted after a successful response was rendered
type SuggestionsReceivedEvent struct {
	ID      string
	Query   string
	Count   int
	Elapsed time.Duration
}

func (e SuggestionsReceivedEvent) Type() EventType { return EventSuggestionsReceived }

// QueryFailedEvent is emitted when the endpoint answered non-200 or the request failed.
// The suggestion list is left as it was.
type QueryFailedEvent struct {
	ID    string
	Query string
	Err   error
}

func (e QueryFailedEvent) Type() EventType { return EventQueryFailed }

// SuggestionSelectedEvent is emitted when a suggestion is picked
type SuggestionSelectedEvent struct {
	Text string
}

func (e SuggestionSelectedEvent) Type() EventType { return EventSuggestionSelected }

// FormSubmittedEvent is emitted after the search form was posted
type FormSubmittedEvent struct {
	Query      string
	StatusCode int
	Location   string
	Err        error
}

func (e FormSubmittedEvent) Type() EventType { return EventFormSubmitted }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path       string
	URL        string
	ObjectType string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
