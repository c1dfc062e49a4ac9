package chi

import (
	"time"

	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
)

// ErrorCode is the machine-readable error kind returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeNotFound         ErrorCode = "not_found"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeNoSourceData     ErrorCode = "no_source_data"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AmazonMetaResponse is the product metadata block of a rex.
type AmazonMetaResponse struct {
	Title       string `json:"title,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// RexResponse is the wire shape of a rex.
type RexResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Title       string              `json:"title"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	MediaURL    string              `json:"mediaUrl"`
	Tags        []string            `json:"tags"`
	AmazonURL   string              `json:"amazonUrl,omitempty"`
	AmazonMeta  *AmazonMetaResponse `json:"amazonMeta,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// CreateRexRequest is the body of POST /api/rex.
type CreateRexRequest struct {
	UserID      string   `json:"userId"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	MediaURL    string   `json:"mediaUrl"`
	Tags        []string `json:"tags"`
}

// RexPageResponse is a paginated listing.
type RexPageResponse struct {
	Items   []RexResponse `json:"items"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	Total   int           `json:"total"`
	HasMore bool          `json:"hasMore"`
}

// SearchRequest is the body of POST /api/search. UseLLM defaults to true.
type SearchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
	UseLLM *bool  `json:"useLLM"`
}

// SearchResponse echoes the query with the keywords used and the matches.
type SearchResponse struct {
	Query    string        `json:"query"`
	Keywords []string      `json:"keywords"`
	Results  []RexResponse `json:"results"`
}

// SeedRequest is the body of POST /api/seed-user.
type SeedRequest struct {
	UserID string `json:"userId"`
}

// SeedResponse reports how many sample rex were added.
type SeedResponse struct {
	UserID string `json:"userId"`
	Seeded int    `json:"seeded"`
}

// LoadRequest is the body of POST /api/load-mcauley-data. FiveStarOnly defaults to true.
type LoadRequest struct {
	Categories   []string `json:"categories"`
	Limit        *int     `json:"limit"`
	FiveStarOnly *bool    `json:"fiveStarOnly"`
}

// LoadResponse summarizes a dataset load.
type LoadResponse struct {
	Added int      `json:"added"`
	Total int      `json:"total"`
	Files []string `json:"files"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func rexToResponse(rx *domrex.Rex) RexResponse {
	tags := rx.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := RexResponse{
		ID:          rx.ID,
		UserID:      rx.UserID,
		Title:       rx.Title,
		Category:    rx.Category,
		Description: rx.Description,
		MediaURL:    rx.MediaURL,
		Tags:        tags,
		AmazonURL:   rx.AmazonURL,
		CreatedAt:   rx.CreatedAt.UTC(),
	}
	if !rx.AmazonMeta.IsZero() {
		resp.AmazonMeta = &AmazonMetaResponse{
			Title:       rx.AmazonMeta.Title,
			Image:       rx.AmazonMeta.Image,
			Description: rx.AmazonMeta.Description,
		}
	}
	return resp
}

func rexListToResponse(items []domrex.Rex) []RexResponse {
	out := make([]RexResponse, len(items))
	for i := range items {
		out[i] = rexToResponse(&items[i])
	}
	return out
}

func (r *CreateRexRequest) toDraft() domrex.Draft {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return domrex.Draft{
		UserID:      r.UserID,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		MediaURL:    r.MediaURL,
		Tags:        tags,
	}
}
