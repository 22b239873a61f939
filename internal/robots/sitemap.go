package robots

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

// maxSitemapBytes bounds how much of a sitemap document is read.
const maxSitemapBytes = 5 * 1024 * 1024

// urlset mirrors the sitemaps.org namespace schema closely enough to pull
// out <loc> values; the namespace itself is not validated since real-world
// sitemaps are routinely served with minor schema deviations.
type urlset struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// FetchSitemap retrieves sitemapURL and returns every <loc> value found,
// whether the document is a <urlset> (page listing) or a <sitemapindex>
// (nested sitemap listing) — both share the same <loc> leaf shape.
func FetchSitemap(ctx context.Context, client *http.Client, sitemapURL, userAgent string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/xml,text/xml,*/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sitemap fetch %s: status %d", sitemapURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes+1))
	if err != nil {
		return nil, err
	}

	var doc urlset
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	locs := make([]string, 0, len(doc.URLs)+len(doc.Sitemaps))
	for _, u := range doc.URLs {
		if u.Loc != "" {
			locs = append(locs, u.Loc)
		}
	}
	for _, s := range doc.Sitemaps {
		if s.Loc != "" {
			locs = append(locs, s.Loc)
		}
	}
	return locs, nil
}
