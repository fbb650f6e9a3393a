package storage

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
)

const defaultExpiryDays = 90

const epoch = "Thu, 01 Jan 1970 00:00:00 GMT"

// Cookie persists levels in host cookies named after the percent-encoded
// key, valid for every path and expiring after a fixed number of days.
type Cookie struct {
	env    host.Environment
	prefix string
	opts   options
}

// NewCookie creates a backend over env's cookie jar. An empty prefix means
// DefaultPrefix; the lifetime defaults to 90 days.
func NewCookie(env host.Environment, prefix string, opts ...Option) *Cookie {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cookie{env: env, prefix: prefix, opts: newOptions(opts)}
}

// Save implements Storage.
func (c *Cookie) Save(lvl level.Level, name string) bool {
	if !host.HasCookies(c.env) {
		return false
	}
	expires := c.opts.now().Add(time.Duration(c.opts.expiryDays) * 24 * time.Hour)
	c.env.Cookies().SetCookie(escapeKey(storageKey(c.prefix, name)) + "=" + lvl.String() +
		"; expires=" + expires.UTC().Format(http.TimeFormat) + "; path=/")
	return true
}

// Load implements Storage.
func (c *Cookie) Load(name string) (level.Level, bool) {
	if !host.HasCookies(c.env) {
		return 0, false
	}
	want := escapeKey(storageKey(c.prefix, name))
	for _, part := range strings.Split(c.env.Cookies().Cookie(), ";") {
		k, v, _ := strings.Cut(strings.TrimSpace(part), "=")
		if k == want && v != "" {
			return parseStored(c.opts, "cookie", k, v)
		}
	}
	return 0, false
}

// Clear implements Storage.
func (c *Cookie) Clear(name string) bool {
	if !host.HasCookies(c.env) {
		return false
	}
	c.env.Cookies().SetCookie(escapeKey(storageKey(c.prefix, name)) + "=; expires=" + epoch + "; path=/")
	return true
}

// componentUnescapes restores the characters URI components leave as-is but
// QueryEscape encodes.
var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeKey percent-encodes a cookie name the way a URI component is encoded.
func escapeKey(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}
