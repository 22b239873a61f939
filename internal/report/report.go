// Package report builds and writes the final JSON report. It reads the
// Asset Store and RunState only after the crawl has finished draining —
// everything here is a read-only snapshot, never a live view.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/runstate"
	"github.com/go-recon/reconcrawler/pkg/fileutil"
)

// Finding is one sighting of a value within a category, shaped for the
// report's "findings" object.
type Finding struct {
	Value     string    `json:"value"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats carries the two run counters the report schema surfaces.
type Stats struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Report is the exact shape written to disk by Write, matching JSON
// schema field-for-field.
type Report struct {
	Target       string               `json:"target"`
	BaseDomain   string               `json:"base_domain"`
	ScanDate     time.Time            `json:"scan_date"`
	Duration     string               `json:"duration"`
	Stats        Stats                `json:"stats"`
	Technologies []string             `json:"technologies"`
	Filters      []string             `json:"filters"`
	Findings     map[string][]Finding `json:"findings"`
}

// Build assembles a Report from a finished run's target, Asset Store
// snapshot, and RunState snapshot. filters is the active category filter
// (nil means "all categories", which the schema represents as a JSON
// null).
func Build(target string, started, finished time.Time, store *assetstore.Store, runState *runstate.RunState, filters []string) Report {
	snap := store.Snapshot()
	rsSnap := runState.Snapshot()

	findings := make(map[string][]Finding)
	var technologies []string
	for _, category := range assetstore.AllCategories {
		records := snap[category]
		if len(records) == 0 {
			continue
		}
		if category == assetstore.CategoryTech {
			for _, r := range records {
				technologies = append(technologies, r.Value)
			}
			continue
		}
		out := make([]Finding, 0, len(records))
		for _, r := range records {
			out = append(out, Finding{Value: r.Value, Source: r.Source, Timestamp: r.Timestamp})
		}
		findings[string(category)] = out
	}
	sort.Strings(technologies)

	return Report{
		Target:       target,
		BaseDomain:   rsSnap.RootDomain,
		ScanDate:     finished.UTC(),
		Duration:     formatDuration(finished.Sub(started)),
		Stats:        Stats{Processed: rsSnap.URLsProcessed, Failed: rsSnap.URLsFailed},
		Technologies: technologies,
		Filters:      filters,
		Findings:     findings,
	}
}

// formatDuration renders d as "HH:MM:SS"
func formatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Write marshals report as indented JSON and writes it to path, creating
// any missing parent directories first.
func Write(path string, report Report) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := fileutil.EnsureDir(dir); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
