package reviews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/rex/internal/domain/ingest"
)

const rowBatch = 512

// reviewColumns are leaf column indexes of a review parquet file; -1 when absent.
type reviewColumns struct {
	asin         int
	parentASIN   int
	userID       int
	title        int
	text         int
	rating       int
	mainCategory int
	productTitle int
	largeImage   int // images.list.element.large_image_url
	mediumImage  int
	smallImage   int
}

// resolveReviewColumns finds leaf-level indexes by name. The generic row reader is
// used instead of Schema.Reconstruct, which fails on nullable nested image lists.
func resolveReviewColumns(pf *parquet.File) reviewColumns {
	cols := reviewColumns{
		asin: -1, parentASIN: -1, userID: -1, title: -1, text: -1, rating: -1,
		mainCategory: -1, productTitle: -1, largeImage: -1, mediumImage: -1, smallImage: -1,
	}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "asin":
			cols.asin = i
		case "parent_asin":
			cols.parentASIN = i
		case "user_id":
			cols.userID = i
		case "title":
			cols.title = i
		case "text":
			cols.text = i
		case "rating":
			cols.rating = i
		case "main_category":
			cols.mainCategory = i
		case "product_title":
			cols.productTitle = i
		case "images":
			switch path[len(path)-1] {
			case "large_image_url":
				cols.largeImage = i
			case "medium_image_url":
				cols.mediumImage = i
			case "small_image_url":
				cols.smallImage = i
			}
		}
	}
	return cols
}

func readParquet(ctx context.Context, path, category string, yield YieldFunc) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return fmt.Errorf("open parquet %s: %w", filepath.Base(path), err)
	}

	cols := resolveReviewColumns(pf)
	buf := make([]parquet.Row, rowBatch)

	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				r := rowToReview(buf[i], cols)
				if r.Category == "" {
					r.Category = category
				}
				if !yield(&r) {
					return nil
				}
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return fmt.Errorf("read rows %s: %w", filepath.Base(path), readErr)
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("read %s: %w", filepath.Base(path), err)
			}
		}
	}
	return nil
}

// rowToReview extracts a review from a generic parquet row by column index.
// The first non-null image URL wins, large before medium before small.
func rowToReview(row parquet.Row, cols reviewColumns) ingest.Review {
	var r ingest.Review
	var large, medium, small string

	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.asin:
			r.ASIN = v.String()
		case cols.parentASIN:
			r.ParentASIN = v.String()
		case cols.userID:
			r.UserID = v.String()
		case cols.title:
			r.Title = v.String()
		case cols.text:
			r.Text = v.String()
		case cols.rating:
			if f, ok := numeric(v); ok {
				r.Rating = &f
			}
		case cols.mainCategory:
			r.Category = v.String()
		case cols.productTitle:
			r.ProductTitle = v.String()
		case cols.largeImage:
			if large == "" {
				large = v.String()
			}
		case cols.mediumImage:
			if medium == "" {
				medium = v.String()
			}
		case cols.smallImage:
			if small == "" {
				small = v.String()
			}
		}
	}

	for _, u := range []string{large, medium, small} {
		if u != "" {
			r.ImageURL = u
			break
		}
	}
	return r
}

func numeric(v parquet.Value) (float64, bool) {
	switch v.Kind() {
	case parquet.Double:
		return v.Double(), true
	case parquet.Float:
		return float64(v.Float()), true
	case parquet.Int32:
		return float64(v.Int32()), true
	case parquet.Int64:
		return float64(v.Int64()), true
	default:
		return 0, false
	}
}
