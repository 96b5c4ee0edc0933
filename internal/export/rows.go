// Package export writes the observation log as CSV and SpreadsheetML and
// reads it back from CSV.
package export

import (
	"strconv"

	"github.com/rpggio/timestudy/internal/domain/observation"
)

// VideoFilePrefix starts the optional metadata line naming the source video.
const VideoFilePrefix = "Video File: "

// Header is the column order shared by every export format.
var Header = []string{"Timestamp", "Segment", "Duration (sec)", "Element", "Description", "Observations", "People", "Category"}

// Row is one exported entry, already formatted.
type Row struct {
	Timestamp    string
	Segment      int
	Duration     float64
	Element      string
	Description  string
	Observations string
	People       string
	Category     string
}

// Rows formats entries in log order.
func Rows(entries []observation.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Timestamp:    observation.FormatTimestamp(e.Timestamp),
			Segment:      e.Track,
			Duration:     e.DurationSeconds,
			Element:      e.ElementName,
			Description:  e.Description,
			Observations: e.Observations,
			People:       e.People,
			Category:     e.Category,
		})
	}
	return rows
}

// Fields returns the row in Header order.
func (r Row) Fields() []string {
	return []string{
		r.Timestamp,
		strconv.Itoa(r.Segment),
		formatNumber(r.Duration),
		r.Element,
		r.Description,
		r.Observations,
		r.People,
		r.Category,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
