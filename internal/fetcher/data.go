package fetcher

import (
	"net/http"
	"time"
)

// Headers aliases net/http's canonical, case-insensitive header map so
// callers outside this package never need to import net/http themselves.
type Headers = http.Header

// Response is the outcome of a successful GET/HEAD: the decoded body (empty
// when the content type wasn't eligible for decoding), the raw
// response headers, the final status code, and the final URL after any
// redirects were followed.
type Response struct {
	FinalURL  string
	Body      string
	Headers   Headers
	Status    int
	FetchedAt time.Time
}

// ContentType returns the response's Content-Type header value, without
// attempting to strip its parameters (e.g. "text/html; charset=utf-8") —
// callers needing the bare media type use strings.Cut or mime.ParseMediaType.
func (r Response) ContentType() string {
	return r.Headers.Get("Content-Type")
}
