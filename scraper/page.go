package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Query selects raw text from a page. When Attr is set the attribute value
// of each matched element is read instead of its text.
type Query struct {
	Selector string
	Attr     string
}

// Page is one fetched document that raw field values can be selected from.
type Page interface {
	URL() string
	// Field returns the first match of q, or false when nothing matches.
	Field(q Query) (string, bool)
	// Fields returns every match of q in document order. Text queries
	// yield one entry per text node under each matched element.
	Fields(q Query) []string
	// Resolve turns a possibly relative reference into an absolute URL.
	Resolve(ref string) string
}

// Source opens pages by URL.
type Source interface {
	Open(ctx context.Context, url string) (Page, error)
}

// Fetcher returns the raw HTML of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DocumentPage is a Page backed by a parsed goquery document.
type DocumentPage struct {
	url *url.URL
	doc *goquery.Document
}

// NewDocumentPage parses body as the HTML found at rawURL.
func NewDocumentPage(rawURL string, body []byte) (*DocumentPage, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("scraper: parse url %q: %w", rawURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scraper: parse html from %q: %w", rawURL, err)
	}
	return &DocumentPage{url: u, doc: doc}, nil
}

func (p *DocumentPage) URL() string {
	return p.url.String()
}

func (p *DocumentPage) Field(q Query) (string, bool) {
	sel := p.doc.Find(q.Selector)
	if q.Attr == "" {
		if sel.Length() == 0 {
			return "", false
		}
		return sel.First().Text(), true
	}

	for i := range sel.Nodes {
		if v, ok := sel.Eq(i).Attr(q.Attr); ok {
			return v, true
		}
	}
	return "", false
}

func (p *DocumentPage) Fields(q Query) []string {
	var out []string
	p.doc.Find(q.Selector).Each(func(_ int, s *goquery.Selection) {
		if q.Attr != "" {
			if v, ok := s.Attr(q.Attr); ok {
				out = append(out, v)
			}
			return
		}
		for _, n := range s.Nodes {
			out = appendTextNodes(out, n)
		}
	})
	return out
}

func appendTextNodes(out []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(out, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = appendTextNodes(out, c)
	}
	return out
}

func (p *DocumentPage) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	u, err := p.url.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

// HTMLSource opens pages by fetching them and parsing the HTML.
type HTMLSource struct {
	fetcher Fetcher
}

// NewHTMLSource creates an HTMLSource on top of fetcher.
func NewHTMLSource(fetcher Fetcher) (*HTMLSource, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("scraper.NewHTMLSource: fetcher cannot be nil")
	}
	return &HTMLSource{fetcher: fetcher}, nil
}

func (s *HTMLSource) Open(ctx context.Context, url string) (Page, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewDocumentPage(url, body)
}
