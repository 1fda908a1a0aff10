// Package urlclean canonicalizes bookmark URLs so the same page saved
// through different links (http vs https, www, tracking queries, blogspot
// country domains) compares equal.
package urlclean

import (
	"net/url"
	"strings"
)

// Clean canonicalizes a URL: forces https, strips a leading "www.",
// collapses blogspot country TLDs to .com, and drops the query, fragment,
// trailing slash and index.html/index.php suffixes. Unparseable input is
// returned unchanged.
func Clean(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	return "https://" + fixupBlogspot(host) + cleanPath(parsed.Path)
}

// fixupBlogspot rewrites blogspot's per-country mirrors (example.blogspot.cl,
// example.blogspot.com.br) to the canonical .com domain.
func fixupBlogspot(host string) string {
	before, _, found := strings.Cut(host, ".blogspot.")
	if !found {
		return host
	}
	return before + ".blogspot.com"
}

func cleanPath(path string) string {
	path = strings.TrimSuffix(path, "index.html")
	path = strings.TrimSuffix(path, "index.php")
	return strings.TrimRight(path, "/")
}
