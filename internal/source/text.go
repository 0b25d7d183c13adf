package source

import (
	"crypto/sha256"
	"encoding/hex"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ExcerptLength bounds free-text excerpts, in runes.
const ExcerptLength = 200

var stripPolicy = bluemonday.StrictPolicy()

// StripHTML removes all markup and collapses whitespace.
func StripHTML(s string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// Excerpt strips, truncates and returns nil for empty text.
func Excerpt(s string) *string {
	return OptionalString(Truncate(StripHTML(s), ExcerptLength))
}

// OptionalString returns nil for blank strings.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// HTTPURL returns u when it is an absolute http(s) URL, otherwise "".
func HTTPURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return u
}

// FirstURL returns the first candidate that is a usable http(s) URL.
func FirstURL(candidates ...string) *string {
	for _, c := range candidates {
		if u := HTTPURL(c); u != "" {
			return &u
		}
	}
	return nil
}

// HashID derives a stable identifier from a URL for sources without one.
func HashID(link string) string {
	h := sha256.Sum256([]byte(link))
	return hex.EncodeToString(h[:16])
}
