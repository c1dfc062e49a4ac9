package rex

import (
	"net/url"
	"regexp"
	"strings"
)

// KeyFunc derives the dedup key of a rex. An empty key means the rex has no identity
// and is never treated as a duplicate.
type KeyFunc func(r *Rex) string

// asinPattern matches the product segment of amazon.com product links (/dp/, /gp/product/).
var asinPattern = regexp.MustCompile(`(?i)/(?:dp|gp/product|product)/([A-Z0-9]{10})(?:[/?]|$)`)

// AmazonProductURL builds the canonical product link for an ASIN.
func AmazonProductURL(asin string) string {
	asin = strings.TrimSpace(asin)
	if asin == "" {
		return ""
	}
	return "https://www.amazon.com/dp/" + asin
}

// IsAmazonURL reports whether raw points at an amazon.com host.
func IsAmazonURL(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "amazon.com")
}

// ASINFromURL extracts the upper-cased ASIN from an Amazon product link.
func ASINFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	path := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		path = u.Path
	}
	m := asinPattern.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// ByAmazonProduct keys ingested products by ASIN, falling back to the lowercased link
// when it carries no recognizable ASIN.
func ByAmazonProduct(r *Rex) string {
	link := r.AmazonURL
	if link == "" && IsAmazonURL(r.MediaURL) {
		link = r.MediaURL
	}
	if asin := ASINFromURL(link); asin != "" {
		return "asin:" + asin
	}
	if link == "" {
		return ""
	}
	return "url:" + strings.ToLower(strings.TrimSpace(link))
}

// ByReview keys ingested reviews by product, or by author, title and description
// when the review names no product.
func ByReview(r *Rex) string {
	if k := ByAmazonProduct(r); k != "" {
		return k
	}
	title := strings.ToLower(strings.TrimSpace(r.Title))
	if title == "" {
		return ""
	}
	desc := strings.ToLower(strings.TrimSpace(r.Description))
	return "review:" + r.UserID + "\x00" + title + "\x00" + desc
}

// ByUserTitle keys rex by author and case-folded title, as used for seeded sample data.
func ByUserTitle(r *Rex) string {
	title := strings.ToLower(strings.TrimSpace(r.Title))
	if r.UserID == "" || title == "" {
		return ""
	}
	return r.UserID + "\x00" + title
}
