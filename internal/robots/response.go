package robots

import (
	"strings"
	"time"
)

// RobotsResponse represents the parsed content of a robots.txt file. This
// recon crawler never uses robots.txt to gate fetches; it is purely a
// discovery source, so RobotsResponse only needs to hand back the sitemap
// URLs and the union of declared paths.
type RobotsResponse struct {
	// The host this robots.txt applies to
	Host string

	// List of sitemap URLs found in the robots.txt
	Sitemaps []string

	// User agent groups, each containing rules for specific user agents
	UserAgents []UserAgentGroup

	// CrawlDelay is the declared Crawl-delay directive, if any, applied to
	// every user-agent group indiscriminately (this crawler does not match
	// its own User-Agent against robots.txt groups for anything but
	// discovery). Zero means none was declared.
	CrawlDelay time.Duration
}

// UserAgentGroup represents a set of rules for one or more user agents.
type UserAgentGroup struct {
	UserAgents []string
	Allows     []PathRule
	Disallows  []PathRule
}

// PathRule represents a single allow or disallow rule.
type PathRule struct {
	Path string
}

// IsEmpty returns true if the response contains no rules or sitemaps.
func (r RobotsResponse) IsEmpty() bool {
	if len(r.Sitemaps) > 0 {
		return false
	}
	for _, group := range r.UserAgents {
		if len(group.Allows) > 0 || len(group.Disallows) > 0 {
			return false
		}
	}
	return true
}

// CollectPaths returns the deduplicated union of every Allow/Disallow path
// across all user-agent groups, excluding wildcarded patterns (those
// contain "*" and are not usable as a literal frontier seed).
func (r RobotsResponse) CollectPaths() []string {
	seen := make(map[string]struct{})
	var paths []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || strings.Contains(p, "*") {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	for _, group := range r.UserAgents {
		for _, rule := range group.Allows {
			add(rule.Path)
		}
		for _, rule := range group.Disallows {
			add(rule.Path)
		}
	}
	return paths
}

// IsDisallowed reports whether urlPath is denied by the longest matching
// Allow/Disallow rule across every user-agent group — this crawler doesn't
// match its own User-Agent against specific groups, so all of them apply
// uniformly, same as CollectPaths. Wildcarded rules are ignored, same as
// CollectPaths. The result never gates a fetch; it only tells a caller
// whether a fetch it is about to make anyway would have been denied.
func (r RobotsResponse) IsDisallowed(urlPath string) bool {
	longest := -1
	denied := false
	consider := func(rule PathRule, deny bool) {
		p := rule.Path
		if p == "" || strings.Contains(p, "*") {
			return
		}
		if !strings.HasPrefix(urlPath, p) {
			return
		}
		if len(p) > longest {
			longest = len(p)
			denied = deny
		}
	}
	for _, group := range r.UserAgents {
		for _, rule := range group.Disallows {
			consider(rule, true)
		}
		for _, rule := range group.Allows {
			consider(rule, false)
		}
	}
	return denied
}
