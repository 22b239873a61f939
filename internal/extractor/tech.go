package extractor

import (
	"net/http"
	"strings"
)

// htmlSignatures maps a case-insensitive HTML substring to the technology
// name it implies.
var htmlSignatures = []struct {
	substring string
	tech      string
}{
	{"wp-content", "WordPress"},
	{"react", "React"},
	{"vue", "Vue"},
	{"bootstrap", "Bootstrap"},
}

// headerSignatures are the response headers inspected for a technology
// fingerprint; their raw value is reported as-is.
var headerSignatures = []string{"Server", "X-Powered-By"}

// DetectTech reports the technologies implied by headers and a gross
// substring scan of body, deduplicated, in a stable order.
func DetectTech(headers http.Header, body string) []string {
	seen := make(map[string]struct{})
	var tech []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		tech = append(tech, name)
	}

	for _, header := range headerSignatures {
		if val := headers.Get(header); val != "" {
			add(val)
		}
	}

	lowerBody := strings.ToLower(body)
	for _, sig := range htmlSignatures {
		if strings.Contains(lowerBody, sig.substring) {
			add(sig.tech)
		}
	}

	return tech
}
