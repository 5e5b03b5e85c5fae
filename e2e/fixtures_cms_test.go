//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// searchRequest is the body the suggestion endpoint receives
type searchRequest struct {
	QueryString string   `json:"query_string"`
	ObjectTypes []string `json:"object_types"`
	Archived    bool     `json:"archived"`
	Token       string   `json:"-"`
}

// FakeCMS serves the suggestion endpoint and the list view form
type FakeCMS struct {
	*httptest.Server

	mu       sync.Mutex
	titles   []string
	status   int
	requests []searchRequest
	submits  []string
}

// NewFakeCMS starts a fake CMS answering every query with titles that
// contain the query, case-insensitively
func NewFakeCMS(t *testing.T, titles ...string) *FakeCMS {
	cms := &FakeCMS{titles: titles, status: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/search/", cms.handleSearch)
	mux.HandleFunc("/admin/pages/", cms.handleForm)
	cms.Server = httptest.NewServer(mux)
	t.Cleanup(cms.Close)

	return cms
}

// SearchURL is the suggestion endpoint
func (c *FakeCMS) SearchURL() string {
	return c.URL + "/admin/search/"
}

// FormURL is the list view the search form posts to
func (c *FakeCMS) FormURL() string {
	return c.URL + "/admin/pages/"
}

// SetStatus makes the suggestion endpoint answer with status
func (c *FakeCMS) SetStatus(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

// Requests returns the suggestion requests seen so far
func (c *FakeCMS) Requests() []searchRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]searchRequest(nil), c.requests...)
}

// Submits returns the queries posted to the form
func (c *FakeCMS) Submits() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.submits...)
}

func (c *FakeCMS) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Token = r.Header.Get("X-CSRFToken")

	c.mu.Lock()
	c.requests = append(c.requests, req)
	status := c.status
	var data []map[string]string
	for _, title := range c.titles {
		if strings.Contains(strings.ToLower(title), strings.ToLower(req.QueryString)) {
			data = append(data, map[string]string{"title": title})
		}
	}
	c.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, "nope", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (c *FakeCMS) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query := r.PostForm.Get("query")

	c.mu.Lock()
	c.submits = append(c.submits, query)
	c.mu.Unlock()

	http.Redirect(w, r, "/admin/pages/?q="+query, http.StatusFound)
}

// CreateTestWorkspace creates the directory the app runs in
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tf.workspace = tf.t.TempDir()
	return tf.workspace, nil
}

// WriteConfig writes a config file into the workspace and returns its path
func (tf *TUITestFramework) WriteConfig(content string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	path := filepath.Join(tf.workspace, "tablesearch.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", err
	}
	return path, nil
}
