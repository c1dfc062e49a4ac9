package rex

import (
	"time"

	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
)

// record is the on-disk shape of a rex inside the store document.
type record struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	MediaURL    string      `json:"mediaUrl"`
	Tags        []string    `json:"tags"`
	AmazonURL   string      `json:"amazonUrl,omitempty"`
	AmazonMeta  *recordMeta `json:"amazonMeta,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type recordMeta struct {
	Title       string `json:"title,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

func toRecord(r *domrex.Rex) record {
	rec := record{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		MediaURL:    r.MediaURL,
		Tags:        r.Tags,
		AmazonURL:   r.AmazonURL,
		CreatedAt:   r.CreatedAt,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if !r.AmazonMeta.IsZero() {
		rec.AmazonMeta = &recordMeta{
			Title:       r.AmazonMeta.Title,
			Image:       r.AmazonMeta.Image,
			Description: r.AmazonMeta.Description,
		}
	}
	return rec
}

// fromRecord rebuilds a rex from disk. Records written by older versions may lack
// tags or a timestamp, both of which are tolerated.
func fromRecord(rec *record) domrex.Rex {
	r := domrex.Rex{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Title:       rec.Title,
		Category:    rec.Category,
		Description: rec.Description,
		MediaURL:    rec.MediaURL,
		Tags:        rec.Tags,
		AmazonURL:   rec.AmazonURL,
		CreatedAt:   rec.CreatedAt.UTC(),
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if rec.AmazonMeta != nil {
		r.AmazonMeta = &domrex.AmazonMeta{
			Title:       rec.AmazonMeta.Title,
			Image:       rec.AmazonMeta.Image,
			Description: rec.AmazonMeta.Description,
		}
	}
	return r
}
