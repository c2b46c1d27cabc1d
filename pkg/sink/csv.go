// Package sink writes the assembled dataset to disk.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/David-Botos/operator-opinions/pkg/converter"
	"github.com/David-Botos/operator-opinions/pkg/model"
)

// WriteResult describes a finished file
type WriteResult struct {
	Path  string
	Rows  int
	Bytes int64
}

// CSVWriter writes output rows as a comma-separated file with a header row
type CSVWriter struct {
	path              string
	attributionColumn string
	converter         *converter.TypeConverter
	logger            *zap.Logger
}

// NewCSVWriter creates a writer for path; a nil converter uses the defaults
func NewCSVWriter(path, attributionColumn string, conv *converter.TypeConverter, logger *zap.Logger) *CSVWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conv == nil {
		conv = converter.NewTypeConverter(logger)
	}
	return &CSVWriter{
		path:              path,
		attributionColumn: attributionColumn,
		converter:         conv,
		logger:            logger,
	}
}

// Write replaces the destination with rows. The file appears only once
// fully written; on error the destination is left untouched.
func (w *CSVWriter) Write(rows []model.OutputRow) (WriteResult, error) {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to create temporary file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := w.encode(tmp, rows); err != nil {
		return WriteResult{}, err
	}

	if err := tmp.Sync(); err != nil {
		return WriteResult{}, fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to stat %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return WriteResult{}, fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return WriteResult{}, fmt.Errorf("failed to set permissions on %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		os.Remove(tmp.Name())
		return WriteResult{}, fmt.Errorf("failed to move dataset into place: %w", err)
	}
	committed = true

	result := WriteResult{Path: w.path, Rows: len(rows), Bytes: info.Size()}
	w.logger.Info("Dataset written",
		zap.String("path", result.Path),
		zap.Int("rows", result.Rows),
		zap.Int64("bytes", result.Bytes))
	return result, nil
}

func (w *CSVWriter) encode(f *os.File, rows []model.OutputRow) error {
	cw := csv.NewWriter(f)
	if err := cw.Write(model.OutputColumns(w.attributionColumn)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		record, err := w.converter.RenderRow(row.Cells())
		if err != nil {
			return fmt.Errorf("row %d (post %s, comment %s): %w", i, row.PostID, row.CommentID, err)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return nil
}
