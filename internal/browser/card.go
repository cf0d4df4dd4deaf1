package browser

import (
	"net/url"
	"strings"
)

// cleanText collapses runs of whitespace the way rendered text reads.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveLink makes href absolute against the page it was found on.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
