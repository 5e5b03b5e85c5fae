package csrf

import (
	"net/http"
	"net/url"
)

// DefaultCookieName is the cookie Django stores the CSRF token in
const DefaultCookieName = "csrftoken"

// HeaderName is the request header the token is sent in
const HeaderName = "X-CSRFToken"

// Provider supplies the anti-forgery token attached to state-changing requests.
// The value is opaque; an empty string means no token is available.
type Provider interface {
	Token() string
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func() string

func (f ProviderFunc) Token() string { return f() }

// Static always returns the same token
type Static string

func (s Static) Token() string { return string(s) }

// CookieProvider reads the token from a cookie jar, the way the browser
// exposes it to page scripts
type CookieProvider struct {
	Jar  http.CookieJar
	URL  *url.URL
	Name string
}

// NewCookieProvider creates a provider reading the named cookie for rawURL.
// An empty name falls back to DefaultCookieName.
func NewCookieProvider(jar http.CookieJar, rawURL, name string) (*CookieProvider, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieProvider{Jar: jar, URL: u, Name: name}, nil
}

// Token returns the cookie value or "" when the cookie is not set
func (p *CookieProvider) Token() string {
	if p == nil || p.Jar == nil || p.URL == nil {
		return ""
	}
	for _, c := range p.Jar.Cookies(p.URL) {
		if c.Name == p.Name {
			return c.Value
		}
	}
	return ""
}

// Apply sets the token header on req. The header is sent even when the
// provider has no token so the server answers with its own CSRF failure.
func Apply(req *http.Request, p Provider) {
	token := ""
	if p != nil {
		token = p.Token()
	}
	req.Header.Set(HeaderName, token)
}
