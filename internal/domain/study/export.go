package study

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/export"
)

func (s *Service) snapshot(ctx context.Context) (entrySnapshot, error) {
	var snap entrySnapshot
	err := s.loop.Call(ctx, func() error {
		snap = s.session.snapshot()
		return nil
	})
	return snap, err
}

// ExportCSV writes the observation log as CSV and returns the number of
// rows written.
func (s *Service) ExportCSV(ctx context.Context, path string) (int, error) {
	return s.exportTo(ctx, path, "CSV", export.WriteCSV)
}

// ExportSpreadsheet writes the observation log and an element summary
// as a SpreadsheetML workbook.
func (s *Service) ExportSpreadsheet(ctx context.Context, path string) (int, error) {
	return s.exportTo(ctx, path, "spreadsheet", export.WriteSpreadsheet)
}

type exportFunc func(w io.Writer, primaryVideo string, entries []observation.Entry) error

func (s *Service) exportTo(ctx context.Context, path, format string, write exportFunc) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, fmt.Errorf("%w: path is required", ErrInvalidInput)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s export: %w", format, err)
	}
	if err := write(f, snap.primary, snap.entries); err != nil {
		f.Close()
		return 0, fmt.Errorf("writing %s export: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing %s export: %w", format, err)
	}
	s.logger.Info("log exported", "format", format, "path", path, "rows", len(snap.entries))
	s.record(ctx, activity.TypeExported, "", fmt.Sprintf("Exported %d entries as %s to %s", len(snap.entries), format, path))
	return len(snap.entries), nil
}

// ImportCSV replaces the observation log with the rows of a CSV export.
// Rows with a malformed timestamp are skipped and counted. The project
// file association is dropped since the log no longer matches it.
func (s *Service) ImportCSV(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV: %w", err)
	}
	defer f.Close()

	entries, skipped, err := export.ReadCSV(f)
	if err != nil {
		return nil, err
	}

	if err := s.loop.Call(ctx, func() error {
		s.session.restoreEntries(entries)
		return nil
	}); err != nil {
		return nil, err
	}
	result := &ImportResult{Imported: len(entries), Skipped: skipped}
	s.logger.Info("CSV imported", "path", path, "imported", result.Imported, "skipped", result.Skipped)
	s.record(ctx, activity.TypeCSVImported, "", fmt.Sprintf("Imported %d entries from %s", result.Imported, path))
	return result, nil
}
