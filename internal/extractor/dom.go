package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/go-recon/reconcrawler/internal/assetstore"
)

// linkAttributes are the element attributes the DOM extractor treats as
// discoverable references.
var linkAttributes = []string{"href", "src", "action", "data-src"}

// jsonScriptIDs are inline <script> ids treated as JSON-bearing even
// without a JSON Content-Type, covering the common app-framework hydration
// payload shape (__NEXT_DATA__ and its lookalikes).
var jsonScriptIDs = map[string]struct{}{
	"__NEXT_DATA__": {},
}

var jsonScriptTypes = map[string]struct{}{
	"application/json":  {},
	"application/ld+json": {},
}

// DOMExtractor implements the DOM extractor: it walks a parsed HTML
// document for links, forms, inline JSON payloads, and comments, delegating
// the entire body text to a RegexExtractor and any discovered JSON payload
// to a JSONWalker.
type DOMExtractor struct {
	regex      *RegexExtractor
	jsonWalker *JSONWalker
}

// NewDOMExtractor builds a DOMExtractor backed by regex and jsonWalker.
func NewDOMExtractor(regex *RegexExtractor, jsonWalker *JSONWalker) *DOMExtractor {
	return &DOMExtractor{regex: regex, jsonWalker: jsonWalker}
}

// Extract parses htmlBody and reports discoveries against sourceURL/sink.
// base is the URL the document was fetched from, used for relative
// reference resolution unless a <base href> overrides it. depth is the
// depth of sourceURL itself; link discoveries are admitted at depth+1.
func (d *DOMExtractor) Extract(htmlBody string, base *url.URL, sourceURL string, depth int, sink Sink) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return &Error{URL: sourceURL, Cause: CauseMalformedHTML, Err: err}
	}

	effectiveBase := resolveBaseHref(doc, base)

	d.extractLinks(doc, effectiveBase, sourceURL, depth, sink)
	d.extractForms(doc, effectiveBase, sourceURL, sink)
	d.extractInlineJSON(doc, effectiveBase, sourceURL, sink)
	d.extractComments(doc, sourceURL, sink)

	d.regex.Extract(htmlBody, effectiveBase, sourceURL, sink)
	return nil
}

func resolveBaseHref(doc *goquery.Document, base *url.URL) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok || href == "" {
		return base
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return base
	}
	return base.ResolveReference(parsed)
}

func (d *DOMExtractor) extractLinks(doc *goquery.Document, base *url.URL, sourceURL string, depth int, sink Sink) {
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		isScript := goquery.NodeName(sel) == "script"
		for _, attr := range linkAttributes {
			val, ok := sel.Attr(attr)
			if !ok || strings.TrimSpace(val) == "" {
				continue
			}
			sink.Admit(val, base, depth+1, sourceURL)
			if attr == "src" && isScript {
				if canonical, ok := sink.Normalize(val, base); ok {
					sink.Add(assetstore.CategoryFiles, canonical, sourceURL)
				}
			}
		}
	})
}

func (d *DOMExtractor) extractForms(doc *goquery.Document, base *url.URL, sourceURL string, sink Sink) {
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", "GET")))
		if method == "" {
			method = "GET"
		}
		action := form.AttrOr("action", "")
		actionURL := sourceURL
		if action != "" {
			if canonical, ok := sink.Normalize(action, base); ok {
				actionURL = canonical
			}
		}

		var names []string
		form.Find("input[name],select[name],textarea[name]").Each(func(_ int, field *goquery.Selection) {
			name, ok := field.Attr("name")
			if !ok || name == "" {
				return
			}
			names = append(names, name)
			sink.Add(assetstore.CategoryInputs, name, sourceURL)
			sink.Add(assetstore.CategoryParams, name, sourceURL)
		})

		entry := fmt.Sprintf("%s %s Params: %s", method, actionURL, formatParamList(names))
		sink.Add(assetstore.CategoryForms, entry, sourceURL)
	})
}

// formatParamList renders names the way Python's list repr would — each
// name single-quoted — matching the crawler's original prototype output
// format for form summaries.
func formatParamList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func (d *DOMExtractor) extractInlineJSON(doc *goquery.Document, base *url.URL, sourceURL string, sink Sink) {
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		scriptType, _ := sel.Attr("type")
		_, idMatches := jsonScriptIDs[id]
		_, typeMatches := jsonScriptTypes[strings.ToLower(scriptType)]
		if !idMatches && !typeMatches {
			return
		}
		value, ok := ParseJSON(sel.Text())
		if !ok {
			return
		}
		d.jsonWalker.Walk(value, base, sourceURL, sink)
	})
}

// commentMinLen and commentMaxLen bound the comment lengths recorded,
// "length in (4, 300)" — exclusive on both ends.
const (
	commentMinLen = 4
	commentMaxLen = 300
)

func (d *DOMExtractor) extractComments(doc *goquery.Document, sourceURL string, sink Sink) {
	if len(doc.Nodes) == 0 {
		return
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			text := strings.TrimSpace(n.Data)
			if len(text) > commentMinLen && len(text) < commentMaxLen {
				sink.Add(assetstore.CategoryComments, text, sourceURL)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc.Nodes[0])
}
