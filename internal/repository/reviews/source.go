// Package reviews reads Amazon Reviews 2023 (McAuley lab) exports from a local directory.
package reviews

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kailas-cloud/rex/internal/domain"
	"github.com/kailas-cloud/rex/internal/domain/ingest"
)

// File name conventions of the dataset exports.
const (
	filePrefix    = "amazon_reviews_2023"
	unifiedJSONL  = filePrefix + ".jsonl"
	parquetExport = filePrefix + ".parquet_export.jsonl"
)

// YieldFunc receives one review; returning false stops the read.
type YieldFunc = func(r *ingest.Review) bool

// Source lists and streams review files below a data directory.
type Source struct {
	dir string
}

// NewSource creates a source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{dir: filepath.Clean(dir)}
}

// Dir returns the data directory.
func (s *Source) Dir() string { return s.dir }

// Files returns the review files to read, in read order. Unified JSONL exports win;
// per-category JSONL files are used only when no unified export exists. Parquet files
// are always included. ErrNoSourceData is returned when nothing is found.
func (s *Source) Files() ([]string, error) {
	var files []string
	for _, name := range []string{unifiedJSONL, parquetExport} {
		p := filepath.Join(s.dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		perCategory, err := glob(s.dir, filePrefix+"_*.jsonl")
		if err != nil {
			return nil, err
		}
		files = append(files, perCategory...)
	}

	parquets, err := glob(s.dir, "*.parquet")
	if err != nil {
		return nil, err
	}
	files = append(files, parquets...)

	if len(files) == 0 {
		return nil, fmt.Errorf("no review files in %s: %w", s.dir, domain.ErrNoSourceData)
	}
	return files, nil
}

// Each streams the reviews of one file. Unparseable JSONL lines are skipped.
func (s *Source) Each(ctx context.Context, path string, yield YieldFunc) error {
	category := categoryFromName(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		return readJSONL(ctx, path, category, yield)
	case ".parquet":
		return readParquet(ctx, path, category, yield)
	default:
		return fmt.Errorf("unsupported review file %s", filepath.Base(path))
	}
}

// categoryFromName derives the category of per-category exports such as
// amazon_reviews_2023_Books.jsonl. Unified exports carry no category.
func categoryFromName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rest, ok := strings.CutPrefix(stem, filePrefix+"_")
	if !ok || rest == "" || strings.HasPrefix(rest, "parquet_export") {
		return ""
	}
	return rest
}

func glob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
