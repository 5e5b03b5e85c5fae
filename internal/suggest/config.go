package suggest

import (
	"errors"
	"strings"
)

// Markup attribute names carrying the widget configuration
const (
	AttrURL        = "data-url"
	AttrObjectType = "data-object-type"
	AttrArchived   = "data-archived"
)

// Config tells the controller which endpoint to ask and what to ask for
type Config struct {
	URL        string
	ObjectType string
	Archived   bool
}

// ConfigFromAttributes reads the configuration from search input attributes.
// Only the exact string "true" enables archived.
func ConfigFromAttributes(attrs map[string]string) Config {
	return Config{
		URL:        attrs[AttrURL],
		ObjectType: attrs[AttrObjectType],
		Archived:   attrs[AttrArchived] == "true",
	}
}

// Validate checks that a query can be built from the configuration
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("search url is required")
	}
	if strings.TrimSpace(c.ObjectType) == "" {
		return errors.New("object type is required")
	}
	return nil
}
