package suggest

import (
	"context"

	"tablesearch/internal/domain"
)

// Input is the search field the controller reads from and fills in
type Input interface {
	Value() string
	SetValue(string)
}

// List is the suggestion dropdown.
// Replace clears the list and appends one entry per item, in order.
type List interface {
	Replace(items []string)
	Hide()
	Show()
}

// Form is the form owning the search field
type Form interface {
	Submit()
}

// Container marks the search widget on a page. Its presence is what
// activates the controller.
type Container interface{}

// Elements are the handles a controller binds to
type Elements struct {
	Container Container
	Input     Input
	List      List
	Form      Form
}

// Querier runs one search request against the endpoint
type Querier interface {
	Query(ctx context.Context, url, objectType, query string, archived bool) ([]domain.Suggestion, error)
}

// QuerierFunc adapts a function to Querier
type QuerierFunc func(ctx context.Context, url, objectType, query string, archived bool) ([]domain.Suggestion, error)

func (f QuerierFunc) Query(ctx context.Context, url, objectType, query string, archived bool) ([]domain.Suggestion, error) {
	return f(ctx, url, objectType, query, archived)
}
