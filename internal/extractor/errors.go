package extractor

import (
	"fmt"

	"github.com/go-recon/reconcrawler/pkg/failure"
)

// Cause classifies why an extractor could not run to completion.
type Cause string

const (
	CauseMalformedHTML Cause = "malformed html"
	CauseMalformedJSON Cause = "malformed json"
)

// Error is the ClassifiedError an extractor reports on malformed input. It
// is always SeverityRecoverable — a document that won't parse is skipped,
// never fatal to the run.
type Error struct {
	URL   string
	Cause Cause
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.URL, e.Cause, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.URL, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
