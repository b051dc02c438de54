package pagescout

import (
	"net/url"
	"strings"
)

// Scope bounds which URLs a crawl session may fetch: a host plus the
// first path segment of the seed URL. URLs with no path segment map to
// the root scope for their host.
type Scope struct {
	Host string

	// PathPrefix is "/" for the root scope, otherwise "/<segment>/".
	PathPrefix string
}

// ScopeFromURL derives the scope of a URL.
func ScopeFromURL(rawURL string) (Scope, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Scope{}, Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return Scope{}, Errorf(EINVALID, "URL %q has no host", rawURL)
	}

	prefix := "/"
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			prefix = "/" + seg + "/"
			break
		}
	}
	return Scope{Host: u.Host, PathPrefix: prefix}, nil
}

// Key returns the map key identifying the scope ("host|/segment/" or
// "host|/").
func (s Scope) Key() string {
	return s.Host + "|" + s.PathPrefix
}

// Contains reports whether rawURL is inside the scope: same host, and a
// path at or under the scope's first path segment.
func (s Scope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Host != s.Host {
		return false
	}
	if s.PathPrefix == "/" {
		return true
	}
	// "/courses" counts as inside "/courses/".
	path := u.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return strings.HasPrefix(path, s.PathPrefix)
}
