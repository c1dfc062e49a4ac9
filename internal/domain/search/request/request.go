package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/rex/internal/domain"
	"github.com/kailas-cloud/rex/internal/domain/search/mode"
)

// MaxQueryLength is the maximum allowed search query length in characters.
const MaxQueryLength = 1024

// Request is a validated search query.
type Request struct {
	query  string
	userID string
	mode   mode.Mode
}

// New validates and normalizes search parameters. The query is trimmed; an empty
// query is valid and matches every rex.
func New(query, userID string, useLLM bool) (Request, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError("query", fmt.Sprintf("exceeds %d characters", MaxQueryLength))
	}
	return Request{
		query:  query,
		userID: strings.TrimSpace(userID),
		mode:   mode.FromFlag(useLLM),
	}, nil
}

// Query returns the trimmed query.
func (r *Request) Query() string { return r.query }

// UserID returns the author filter, empty for all users.
func (r *Request) UserID() string { return r.userID }

// Mode returns the requested extraction mode.
func (r *Request) Mode() mode.Mode { return r.mode }

// MatchAll reports whether the query is blank.
func (r *Request) MatchAll() bool { return r.query == "" }
