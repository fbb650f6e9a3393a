package host

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
)

// Jar is a CookieJar for hosts without a document: cookies are kept for one
// origin in a net/http cookie jar, so expiry is honored the same way a
// browser honors it.
type Jar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	origin *url.URL
}

// NewJar creates an empty jar for origin, e.g. "http://localhost/".
func NewJar(origin string) (*Jar, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid cookie origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid cookie origin %q: scheme must be http or https", origin)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Jar{jar: jar, origin: u}, nil
}

// Cookie implements CookieJar.
func (j *Jar) Cookie() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	cookies := j.jar.Cookies(j.origin)
	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; ")
}

// SetCookie implements CookieJar. Malformed strings are ignored, as a
// document ignores them.
func (j *Jar) SetCookie(raw string) {
	c, err := http.ParseSetCookie(raw)
	if err != nil {
		return
	}
	if c.Path == "" {
		c.Path = "/"
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar.SetCookies(j.origin, []*http.Cookie{c})
}
