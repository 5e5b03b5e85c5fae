package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tablesearch/internal/csrf"
)

// Form field names expected by the CMS list views
const (
	FieldQuery     = "query"
	FieldCSRFToken = "csrfmiddlewaretoken"
)

// SubmitResult describes where the list view sent us after a search submit
type SubmitResult struct {
	StatusCode int
	Location   string
}

// FormSubmitter posts the table search form to its action URL
type FormSubmitter struct {
	action string
	http   *http.Client
	tokens csrf.Provider
}

// NewFormSubmitter creates a submitter for the form at action.
// Redirects are not followed so the caller can report the destination.
func NewFormSubmitter(action string, hc *http.Client, tokens csrf.Provider) *FormSubmitter {
	if hc == nil {
		hc = &http.Client{}
	}
	noRedirect := *hc
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &FormSubmitter{
		action: action,
		http:   &noRedirect,
		tokens: tokens,
	}
}

// Action returns the form action URL
func (f *FormSubmitter) Action() string {
	return f.action
}

// Submit posts query the same way a browser submits the search form
func (f *FormSubmitter) Submit(ctx context.Context, query string) (SubmitResult, error) {
	token := ""
	if f.tokens != nil {
		token = f.tokens.Token()
	}
	values := url.Values{}
	values.Set(FieldQuery, query)
	values.Set(FieldCSRFToken, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.action, strings.NewReader(values.Encode()))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to build form request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	csrf.Apply(req, f.tokens)

	resp, err := f.http.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("form submit failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	result := SubmitResult{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return result, &StatusError{StatusCode: resp.StatusCode, URL: f.action}
	}
	return result, nil
}
