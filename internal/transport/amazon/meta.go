// Package amazon resolves product metadata from amazon.com listing pages.
package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kailas-cloud/rex/internal/domain"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
)

// DefaultTimeout bounds one page fetch.
const DefaultTimeout = 12 * time.Second

// maxPageBytes caps how much of a listing page is parsed.
const maxPageBytes = 4 << 20

// browserHeaders make the request look like a desktop browser; amazon.com serves
// a bot wall to bare clients.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"Referer":         "https://www.amazon.com/",
}

// Fetcher downloads and parses product pages.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewFetcher creates a Fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client, timeout time.Duration) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: client, timeout: timeout}
}

// Fetch returns the metadata of the product page at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (domrex.AmazonMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return domrex.AmazonMeta{}, fmt.Errorf("create request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domrex.AmazonMeta{}, fmt.Errorf("fetch %s: %v: %w", url, err, domain.ErrExternalService)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domrex.AmazonMeta{}, fmt.Errorf("fetch %s: status %d: %w", url, resp.StatusCode, domain.ErrExternalService)
	}
	return Parse(io.LimitReader(resp.Body, maxPageBytes))
}

// Parse extracts title, description and image from a product page.
// Open Graph and Twitter card tags win over on-page selectors.
func Parse(r io.Reader) (domrex.AmazonMeta, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return domrex.AmazonMeta{}, fmt.Errorf("parse html: %w", err)
	}

	p := &page{meta: make(map[string]string)}
	p.walk(doc, false)

	title := p.first("og:title", "twitter:title")
	if title == "" {
		title = p.productTitle
	}
	if title == "" {
		title = p.docTitle
	}
	image := p.first("og:image:secure_url", "og:image", "twitter:image", "twitter:image:src")
	if image == "" && p.landing != nil {
		image = landingImage(p.landing)
	}

	return domrex.AmazonMeta{
		Title:       title,
		Description: p.first("og:description", "twitter:description"),
		Image:       image,
	}, nil
}

type page struct {
	meta         map[string]string // property or name -> first content seen
	productTitle string
	docTitle     string
	landing      *html.Node
}

func (p *page) first(keys ...string) string {
	for _, k := range keys {
		if v := p.meta[k]; v != "" {
			return v
		}
	}
	return ""
}

func (p *page) walk(n *html.Node, inImgWrapper bool) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Meta:
			content := attr(n, "content")
			for _, key := range []string{attr(n, "property"), attr(n, "name")} {
				if key != "" && content != "" {
					if _, ok := p.meta[key]; !ok {
						p.meta[key] = content
					}
				}
			}
		case atom.Title:
			if p.docTitle == "" {
				p.docTitle = strings.TrimSpace(text(n))
			}
		case atom.Img:
			switch {
			case attr(n, "id") == "landingImage":
				p.landing = n
			case inImgWrapper && p.landing == nil:
				p.landing = n
			}
		}
		switch attr(n, "id") {
		case "productTitle":
			if p.productTitle == "" {
				p.productTitle = strings.Join(strings.Fields(text(n)), " ")
			}
		case "imgTagWrapperId":
			inImgWrapper = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, inImgWrapper)
	}
}

// landingImage prefers the high-resolution attribute, then the first url of the
// dynamic image map, then src.
func landingImage(n *html.Node) string {
	if v := attr(n, "data-old-hires"); v != "" {
		return v
	}
	if dyn := attr(n, "data-a-dynamic-image"); dyn != "" {
		if u := firstKey(dyn); u != "" {
			return u
		}
	}
	return attr(n, "src")
}

// firstKey returns the first key of a JSON object in document order, which needs
// the token stream rather than a map.
func firstKey(raw string) string {
	dec := json.NewDecoder(strings.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return ""
	}
	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	key, _ := tok.(string)
	return key
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
