package rex

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/rex/internal/domain"
)

// DefaultCategory is assigned to ingested products without a category of their own.
const DefaultCategory = "Amazon"

// AmazonMeta holds product metadata resolved from an Amazon listing.
type AmazonMeta struct {
	Title       string
	Image       string
	Description string
}

// IsZero reports whether no metadata field is set.
func (m *AmazonMeta) IsZero() bool {
	return m == nil || (m.Title == "" && m.Image == "" && m.Description == "")
}

// Rex is a single stored recommendation. Fields are set once at creation.
type Rex struct {
	ID          string
	UserID      string
	Title       string
	Category    string
	Description string
	MediaURL    string
	Tags        []string
	AmazonURL   string
	AmazonMeta  *AmazonMeta
	CreatedAt   time.Time
}

// Clone returns a deep copy so callers can't mutate stored state.
func (r *Rex) Clone() Rex {
	c := *r
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	if r.AmazonMeta != nil {
		meta := *r.AmazonMeta
		c.AmazonMeta = &meta
	}
	return c
}

// Draft is the caller-supplied part of a rex, before id and timestamp are assigned.
type Draft struct {
	UserID      string      `json:"userId" validate:"required"`
	Title       string      `json:"title" validate:"required"`
	Category    string      `json:"category" validate:"required"`
	Description string      `json:"description"`
	MediaURL    string      `json:"mediaUrl"`
	Tags        []string    `json:"tags"`
	AmazonURL   string      `json:"amazonUrl"`
	AmazonMeta  *AmazonMeta `json:"amazonMeta"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Normalize trims the required fields; tags keep their order and duplicates.
func (d Draft) Normalize() Draft {
	d.UserID = strings.TrimSpace(d.UserID)
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

// Validate checks required fields in declaration order: userId, title, category.
func (d *Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fe.Field(), reasonForTag(fe.Tag()))
	}
	return domain.NewValidationError("draft", err.Error())
}

func reasonForTag(tag string) string {
	if tag == "required" {
		return "is required"
	}
	return "failed on '" + tag + "' validation"
}

// New normalizes and validates a draft, then stamps it with id and creation time.
func New(d Draft, id string, createdAt time.Time) (Rex, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return Rex{}, err
	}

	var meta *AmazonMeta
	if !d.AmazonMeta.IsZero() {
		m := *d.AmazonMeta
		meta = &m
	}

	return Rex{
		ID:          id,
		UserID:      d.UserID,
		Title:       d.Title,
		Category:    d.Category,
		Description: d.Description,
		MediaURL:    d.MediaURL,
		Tags:        append([]string{}, d.Tags...),
		AmazonURL:   d.AmazonURL,
		AmazonMeta:  meta,
		CreatedAt:   createdAt.UTC(),
	}, nil
}

// BulkResult summarizes a bulk insert.
type BulkResult struct {
	Inserted   int // appended and persisted
	Duplicates int // skipped because the dedup key already existed
	Rejected   int // skipped because the draft failed validation
	Total      int // collection size after the insert
}
