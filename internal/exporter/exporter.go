// Package exporter writes a run's records to an .xlsx workbook.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
	"github.com/kurihiro0119/ops-task-report/internal/timefmt"
)

// SheetName is the single sheet every export contains
const SheetName = "Ops"

// Exporter writes records to Ops-<DD_MM_YYYY>.xlsx in its directory
type Exporter struct {
	dir string
	now func() time.Time
	log *logger.Logger
}

// Option configures an Exporter
type Option func(*Exporter)

// WithClock overrides the clock used to name the file
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// New creates an exporter writing into dir
func New(dir string, opts ...Option) *Exporter {
	e := &Exporter{
		dir: dir,
		now: time.Now,
		log: logger.Named("exporter"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileName returns the output file name for a run on t
func FileName(t time.Time) string {
	return fmt.Sprintf("Ops-%s.xlsx", timefmt.FileDate(t))
}

// Path returns where Export writes for the current date
func (e *Exporter) Path() string {
	return filepath.Join(e.dir, FileName(e.now()))
}

// Export writes records to the current date's file, replacing any existing
// file of the same name, and returns the path written.
func (e *Exporter) Export(records []domain.EnrichedRecord) (string, error) {
	now := e.now()
	e.log.Info().Msgf("Compiling Ops Tasks for : %s", timefmt.FileDate(now))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, domain.Columns()); err != nil {
		return "", err
	}
	for i, r := range records {
		if err := setRow(f, i+2, r.Values()); err != nil {
			return "", err
		}
	}

	if e.dir != "" {
		if err := os.MkdirAll(e.dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	path := filepath.Join(e.dir, FileName(now))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// ReadRows returns every row of the Ops sheet, header first
func ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", SheetName, err)
	}
	return rows, nil
}
