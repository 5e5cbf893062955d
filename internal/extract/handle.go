package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// handlePattern is Twitter's historical handle grammar: 1-15 word
// characters, case preserved.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// Handle extracts a validated X/Twitter handle from a profile URL.
// It is total and pure: malformed input is an ordinary rejection, never an
// error, so a bad link in the data source can never fail a run.
//
// The host check is a suffix match on "x.com" / "twitter.com". A host like
// "fakex.com" passes it. That looseness matches the upstream data contract
// and is preserved as-is rather than silently tightened.
func Handle(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Host)
	if !strings.HasSuffix(host, "x.com") && !strings.HasSuffix(host, "twitter.com") {
		return "", false
	}

	path := strings.TrimLeft(parsed.Path, "/")
	if path == "" {
		return "", false
	}

	// Only the first path segment is a handle candidate. Everything after
	// it ("/status/123", "/with_replies") is ignored, not validated.
	candidate := path
	if idx := strings.Index(path, "/"); idx >= 0 {
		candidate = path[:idx]
	}

	// "/i/..." is Twitter's reserved internal prefix, e.g. /i/web/status/1.
	if strings.EqualFold(candidate, "i") {
		return "", false
	}

	if !handlePattern.MatchString(candidate) {
		return "", false
	}

	return candidate, true
}
