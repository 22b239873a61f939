// Package wayback implements the Wayback Machine CDX ingester: a
// best-effort, non-fatal discovery source queried once per root domain.
package wayback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const cdxEndpoint = "https://web.archive.org/cdx/search/cdx"

// DefaultLimit is the cap on rows requested from the CDX API when the
// Configuration doesn't override it ("default 300").
const DefaultLimit = 300

// Fetch retrieves every archived URL known for rootDomain and its
// subdomains, skipping the CDX header row. A transport failure or
// malformed response is returned as an error for the caller to log and
// ignore — Wayback ingestion is never fatal to a run.
func Fetch(ctx context.Context, client *http.Client, userAgent, rootDomain string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	url := fmt.Sprintf("%s?url=*.%s/*&output=json&fl=original&collapse=urlkey&limit=%d", cdxEndpoint, rootDomain, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wayback CDX returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse wayback CDX response: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	// rows[0] is the header ("original"); the rest are single-element rows.
	urls := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		urls = append(urls, row[0])
	}
	return urls, nil
}
