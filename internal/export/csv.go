package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpggio/timestudy/internal/domain/observation"
)

// WriteCSV writes an optional video metadata line, the header and one
// line per entry.
func WriteCSV(w io.Writer, primaryVideo string, entries []observation.Entry) error {
	cw := csv.NewWriter(w)
	if primaryVideo != "" {
		if err := cw.Write([]string{VideoFilePrefix + primaryVideo}); err != nil {
			return err
		}
	}
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range Rows(entries) {
		if err := cw.Write(row.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV export. The metadata line and header are
// optional. Rows with fewer than eight fields or a malformed timestamp
// are skipped and counted; segment and duration are parsed softly.
func ReadCSV(r io.Reader) ([]observation.Entry, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		entries []observation.Entry
		skipped int
		line    int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading CSV: %w", err)
		}
		line++
		if line <= 2 && len(record) > 0 {
			first := strings.TrimSpace(record[0])
			if strings.HasPrefix(first, strings.TrimSpace(VideoFilePrefix)) || strings.EqualFold(first, Header[0]) {
				continue
			}
		}
		if len(record) < len(Header) {
			skipped++
			continue
		}
		ts, err := observation.ParseTimestamp(strings.TrimSpace(record[0]))
		if err != nil {
			skipped++
			continue
		}
		track, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil || !observation.ValidTrack(track) {
			track = 0
		}
		duration, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || duration < 0 {
			duration = 0
		}
		people := strings.TrimSpace(record[6])
		if people == "" {
			people = observation.DefaultPeople
		}
		entries = append(entries, observation.Entry{
			Timestamp:       ts,
			Track:           track,
			DurationSeconds: duration,
			ElementName:     record[3],
			Description:     record[4],
			Observations:    record[5],
			People:          people,
			Category:        record[7],
		})
	}
	return entries, skipped, nil
}
