package ingest

import (
	"net/url"
	"strings"
)

// videoHosts are domains whose URLs are assumed to carry video. The match is
// a cheap synchronous heuristic layered in front of the async preview lookup.
var videoHosts = map[string]struct{}{
	"youtube.com":     {},
	"youtu.be":        {},
	"vimeo.com":       {},
	"dailymotion.com": {},
	"twitch.tv":       {},
}

// NormalizeURL prepends a default secure scheme when the input lacks one:
// "example.com" becomes "https://example.com". Whitespace is trimmed. The
// result is the canonical form used for lookups, staleness comparison and
// submission.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

// LooksLikeURL is the cheap pre-filter applied before any network lookup:
// the string must parse after normalization and its host must contain a dot
// and a plausible minimum length. Deliberately superficial — the server
// remains the arbiter of URL validity.
func LooksLikeURL(raw string) bool {
	norm := NormalizeURL(raw)
	if norm == "" {
		return false
	}
	u, err := url.Parse(norm)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return strings.Contains(host, ".") && len(host) >= 4
}

// IsVideoHost reports whether the normalized URL points at a known
// video-hosting domain.
func IsVideoHost(raw string) bool {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if _, ok := videoHosts[host]; ok {
		return true
	}
	// Subdomains count too (m.youtube.com, player.vimeo.com).
	for h := range videoHosts {
		if strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
