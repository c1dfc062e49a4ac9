package listing

import "strings"

// Order is the listing direction over insertion order.
type Order string

// Order constants.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder maps a raw query parameter to an Order, defaulting to Asc.
func ParseOrder(raw string) Order {
	if strings.EqualFold(strings.TrimSpace(raw), string(Desc)) {
		return Desc
	}
	return Asc
}

// DefaultLimit is the page size used when the caller passes none.
const DefaultLimit = 20

// Query selects a page of rex.
type Query struct {
	UserID string
	Page   int // 1-indexed; <= 0 means 1
	Limit  int // <= 0 means DefaultLimit
	Order  Order
}

// Normalize replaces non-positive page and limit with defaults.
func (q Query) Normalize(defaultLimit int) Query {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Order != Desc {
		q.Order = Asc
	}
	return q
}

// Offset returns the index of the first item of the page, capped at total.
func (q Query) Offset(total int) int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > total/q.Limit {
		return total
	}
	return min((q.Page-1)*q.Limit, total)
}

// Page is one slice of a listing.
type Page[T any] struct {
	Items   []T
	Page    int
	Limit   int
	Total   int
	HasMore bool
}

// Slice cuts the page described by q out of items (already filtered and ordered).
func Slice[T any](items []T, q Query) Page[T] {
	total := len(items)
	start := q.Offset(total)
	end := start
	if q.Limit > 0 {
		end += min(q.Limit, total-start)
	}
	return Page[T]{
		Items:   items[start:end],
		Page:    q.Page,
		Limit:   q.Limit,
		Total:   total,
		HasMore: end < total,
	}
}
