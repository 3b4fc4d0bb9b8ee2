package processor

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

// CollectFiles expands paths into the list of supported input files.
// Each path may be a file, a glob pattern or a directory, walked recursively.
func CollectFiles(paths []string) ([]string, error) {
	var files []string

	for _, arg := range paths {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", match)
			}
			if !info.IsDir() {
				// an explicitly named file is taken as is; format detection decides later
				if match == arg || isSupportedFile(match) {
					files = append(files, match)
				}
				continue
			}
			err = filepath.WalkDir(match, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isSupportedFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func isSupportedFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(base, signaturePrefix) {
		return false
	}
	switch filepath.Ext(base) {
	case ".xml", ".zip":
		return true
	default:
		return false
	}
}

// ProcessFiles reads and processes files concurrently, bounded by the configured
// worker count. Results keep the order of files; failed documents are returned
// with Error set rather than aborting the batch. Only context cancellation
// returns an error.
func (p *Pipeline) ProcessFiles(ctx context.Context, files []string, req Request) ([]*Result, error) {
	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Logger()
	log.Info().Int("files", len(files)).Int("workers", p.workers).Msg("batch started")

	perFile := make([][]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				log.Error().Err(err).Str("source", file).Msg("cannot read file")
				perFile[i] = []*Result{{Source: file, Error: fmt.Errorf("failed to read file: %w", err)}}
				return nil
			}
			perFile[i] = p.ProcessBytes(gctx, file, data, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := slices.Concat(perFile...)
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	log.Info().Int("documents", len(results)).Int("failed", failed).Msg("batch finished")
	return results, nil
}

// Documents returns the documents of the successful results, in order
func Documents(results []*Result) []*model.Document {
	docs := make([]*model.Document, 0, len(results))
	for _, r := range results {
		if r.Error == nil && r.Document != nil {
			docs = append(docs, r.Document)
		}
	}
	return docs
}

// ProductSummaryRows concatenates the reconciled rows of the results, in order
func ProductSummaryRows(results []*Result) []model.ProductSummaryRow {
	rows := make([]model.ProductSummaryRow, 0)
	for _, r := range results {
		if r.Error == nil && r.Report != nil {
			rows = append(rows, r.Report.Rows...)
		}
	}
	return rows
}

// Anomalies returns the results that failed or reconciled with anomalies
func Anomalies(results []*Result) []*Result {
	var out []*Result
	for _, r := range results {
		if r.Anomalous() {
			out = append(out, r)
		}
	}
	return out
}
