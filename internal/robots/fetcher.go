// Package robots implements the Robots/Sitemap ingester: it fetches
// and parses a host's robots.txt, handing back its declared sitemap URLs
// and the union of its Allow/Disallow paths so the Seed Controller can seed
// the Frontier with them. It never evaluates allow/disallow as an access
// policy — this recon crawler treats robots.txt purely as a discovery
// source, recording its declared paths as frontier seeds.
package robots

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxBodyBytes bounds how much of a robots.txt response is read, guarding
// against a misconfigured host serving an unbounded stream.
const maxBodyBytes = 500 * 1024

// Fetcher retrieves and parses robots.txt for a host.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFetcher builds a Fetcher using httpClient (already configured with the
// run's timeout, proxy, and TLS settings by the caller) and userAgent.
func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{httpClient: httpClient, userAgent: userAgent}
}

// Fetch retrieves scheme://host/robots.txt. A non-2xx status or transport
// error yields an empty RobotsResponse rather than an error: robots
// ingestion is best-effort and its failures are never fatal to the crawl.
func (f *Fetcher) Fetch(ctx context.Context, scheme, host string) (RobotsResponse, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return RobotsResponse{Host: host}, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html,*/*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return RobotsResponse{Host: host}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RobotsResponse{Host: host}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return RobotsResponse{Host: host}, err
	}
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}

	return ParseRobotsTxt(string(body), host), nil
}

// ParseRobotsTxt parses robots.txt content into a structured RobotsResponse.
func ParseRobotsTxt(content, hostname string) RobotsResponse {
	response := RobotsResponse{Host: hostname}

	scanner := bufio.NewScanner(strings.NewReader(content))
	var currentGroup *UserAgentGroup
	var globalGroup UserAgentGroup
	hasGlobalGroup := false

	flush := func() {
		if currentGroup != nil {
			response.UserAgents = append(response.UserAgents, *currentGroup)
			currentGroup = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(line[:colonIdx]))
		value := strings.TrimSpace(line[colonIdx+1:])

		switch field {
		case "user-agent":
			if currentGroup == nil {
				currentGroup = &UserAgentGroup{UserAgents: []string{value}}
			} else if len(currentGroup.Allows) == 0 && len(currentGroup.Disallows) == 0 {
				currentGroup.UserAgents = append(currentGroup.UserAgents, value)
			} else {
				flush()
				currentGroup = &UserAgentGroup{UserAgents: []string{value}}
			}
		case "allow":
			if currentGroup != nil {
				currentGroup.Allows = append(currentGroup.Allows, PathRule{Path: value})
			} else {
				globalGroup.Allows = append(globalGroup.Allows, PathRule{Path: value})
				hasGlobalGroup = true
			}
		case "disallow":
			if currentGroup != nil {
				currentGroup.Disallows = append(currentGroup.Disallows, PathRule{Path: value})
			} else {
				globalGroup.Disallows = append(globalGroup.Disallows, PathRule{Path: value})
				hasGlobalGroup = true
			}
		case "sitemap":
			if value != "" {
				response.Sitemaps = append(response.Sitemaps, value)
			}
		case "crawl-delay":
			if seconds, err := strconv.ParseFloat(value, 64); err == nil && seconds > 0 {
				response.CrawlDelay = time.Duration(seconds * float64(time.Second))
			}
		}
	}
	flush()

	if hasGlobalGroup && (len(globalGroup.Allows) > 0 || len(globalGroup.Disallows) > 0) {
		globalGroup.UserAgents = []string{"*"}
		response.UserAgents = append([]UserAgentGroup{globalGroup}, response.UserAgents...)
	}

	return response
}
