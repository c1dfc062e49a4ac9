package reviews

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/rex/internal/domain/ingest"
)

// maxLineBytes bounds a single JSONL record; review texts can be long.
const maxLineBytes = 8 << 20

// jsonlReview is one line of a review export.
type jsonlReview struct {
	ASIN         string       `json:"asin"`
	ParentASIN   string       `json:"parent_asin"`
	UserID       string       `json:"user_id"`
	Title        string       `json:"title"`
	Text         string       `json:"text"`
	Rating       *float64     `json:"rating"`
	Images       []jsonlImage `json:"images"`
	MainCategory string       `json:"main_category"`
	Category     string       `json:"category"`
	ProductTitle string       `json:"product_title"`
}

// jsonlImage accepts both the dataset field names and the short variants
// found in hand-made exports.
type jsonlImage struct {
	LargeImageURL  string `json:"large_image_url"`
	MediumImageURL string `json:"medium_image_url"`
	SmallImageURL  string `json:"small_image_url"`
	Large          string `json:"large"`
	Medium         string `json:"medium"`
	Small          string `json:"small"`
	URL            string `json:"url"`
}

func (i *jsonlImage) best() string {
	for _, u := range []string{i.LargeImageURL, i.MediumImageURL, i.SmallImageURL, i.Large, i.Medium, i.Small, i.URL} {
		if u != "" {
			return u
		}
	}
	return ""
}

func readJSONL(ctx context.Context, path, category string, yield YieldFunc) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var raw jsonlReview
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		r := raw.toReview(category)
		if !yield(&r) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (j *jsonlReview) toReview(fileCategory string) ingest.Review {
	r := ingest.Review{
		ASIN:         j.ASIN,
		ParentASIN:   j.ParentASIN,
		UserID:       j.UserID,
		Title:        j.Title,
		Text:         j.Text,
		ProductTitle: j.ProductTitle,
		Rating:       j.Rating,
	}
	switch {
	case j.MainCategory != "":
		r.Category = j.MainCategory
	case j.Category != "":
		r.Category = j.Category
	default:
		r.Category = fileCategory
	}
	for i := range j.Images {
		if u := j.Images[i].best(); u != "" {
			r.ImageURL = u
			break
		}
	}
	return r
}
