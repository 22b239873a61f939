package fetcher

import (
	"fmt"

	"github.com/go-recon/reconcrawler/pkg/failure"
)

// Cause classifies why a fetch failed. Every one of these is a transport
// error the worker counts as urls_failed; a failed fetch is terminal for
// that URL, not retried.
type Cause string

const (
	CauseTimeout        Cause = "timeout"
	CauseNetworkFailure Cause = "network failure"
	CauseTLSFailure     Cause = "tls failure"
	CauseReadBodyFailed Cause = "failed to read response body"
	CauseRedirectLimit  Cause = "redirect limit exceeded"
)

// Error is the ClassifiedError fetch failures are reported as. It is always
// SeverityRecoverable: transport errors are counted and logged, never
// treated as fatal to the run.
type Error struct {
	URL     string
	Cause   Cause
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Cause, e.Wrapped)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
