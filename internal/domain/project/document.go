package project

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/timeline"
)

// FileExtension is the conventional suffix of project files.
const FileExtension = ".vtsp"

// Document is the portable form of a study: the video segments, the
// observation log, the track names and the element library.
type Document struct {
	VideoSegments    []SegmentData  `json:"videoSegments"`
	TimeStudyEntries []EntryData    `json:"timeStudyEntries"`
	SegmentNames     map[int]string `json:"segmentNames"`
	ElementLibrary   []string       `json:"elementLibrary"`
}

type SegmentData struct {
	FilePath  string  `json:"filePath"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
}

// EntryData is one observation. TimeInSeconds carries the entry's
// derived duration, not its timestamp.
type EntryData struct {
	Timestamp       string  `json:"timestamp"`
	TimeInSeconds   float64 `json:"timeInSeconds"`
	ElementName     string  `json:"elementName"`
	Description     string  `json:"description"`
	Observations    string  `json:"observations"`
	People          string  `json:"people"`
	Category        string  `json:"category"`
	Segment         int     `json:"segment"`
	ThumbnailBase64 *string `json:"thumbnailBase64"`
}

// FromState builds a document from live session state.
func FromState(segments []timeline.Segment, entries []observation.Entry, names map[int]string, elements []string) *Document {
	doc := &Document{
		VideoSegments:    make([]SegmentData, 0, len(segments)),
		TimeStudyEntries: make([]EntryData, 0, len(entries)),
		SegmentNames:     make(map[int]string, len(names)),
		ElementLibrary:   append([]string(nil), elements...),
	}
	for _, s := range segments {
		doc.VideoSegments = append(doc.VideoSegments, SegmentData{
			FilePath:  s.FilePath,
			StartTime: s.StartTime,
			Duration:  s.Duration,
		})
	}
	for _, e := range entries {
		data := EntryData{
			Timestamp:     observation.FormatTimestamp(e.Timestamp),
			TimeInSeconds: e.DurationSeconds,
			ElementName:   e.ElementName,
			Description:   e.Description,
			Observations:  e.Observations,
			People:        e.People,
			Category:      e.Category,
			Segment:       e.Track,
		}
		if e.HasThumbnail() {
			encoded := base64.StdEncoding.EncodeToString(e.Thumbnail)
			data.ThumbnailBase64 = &encoded
		}
		doc.TimeStudyEntries = append(doc.TimeStudyEntries, data)
	}
	for k, v := range names {
		doc.SegmentNames[k] = v
	}
	return doc
}

// Segments returns the video segments in document order.
func (d *Document) Segments() []timeline.Segment {
	out := make([]timeline.Segment, 0, len(d.VideoSegments))
	for _, s := range d.VideoSegments {
		out = append(out, timeline.Segment{FilePath: s.FilePath, StartTime: s.StartTime, Duration: s.Duration})
	}
	return out
}

// PrimaryVideo is the first segment's file path, if any.
func (d *Document) PrimaryVideo() string {
	if len(d.VideoSegments) == 0 {
		return ""
	}
	return d.VideoSegments[0].FilePath
}

// Entries decodes the observation entries. Entries with a malformed
// timestamp are skipped and counted; a bad thumbnail only drops the
// thumbnail.
func (d *Document) Entries() ([]observation.Entry, int) {
	out := make([]observation.Entry, 0, len(d.TimeStudyEntries))
	skipped := 0
	for _, data := range d.TimeStudyEntries {
		ts, err := observation.ParseTimestamp(data.Timestamp)
		if err != nil {
			skipped++
			continue
		}
		people := data.People
		if strings.TrimSpace(people) == "" {
			people = observation.DefaultPeople
		}
		track := data.Segment
		if !observation.ValidTrack(track) {
			track = 0
		}
		e := observation.Entry{
			Timestamp:       ts,
			DurationSeconds: data.TimeInSeconds,
			ElementName:     data.ElementName,
			Description:     data.Description,
			Observations:    data.Observations,
			People:          people,
			Category:        data.Category,
			Track:           track,
		}
		if data.ThumbnailBase64 != nil && *data.ThumbnailBase64 != "" {
			if thumb, err := base64.StdEncoding.DecodeString(*data.ThumbnailBase64); err == nil {
				e.Thumbnail = thumb
			}
		}
		out = append(out, e)
	}
	return out, skipped
}

// TrackNames merges stored names over the defaults.
func (d *Document) TrackNames() map[int]string {
	names := observation.DefaultTrackNames()
	for k, v := range d.SegmentNames {
		if observation.ValidTrack(k) && strings.TrimSpace(v) != "" {
			names[k] = v
		}
	}
	return names
}

// Elements returns the stored library, or the defaults when empty.
func (d *Document) Elements() []string {
	if len(d.ElementLibrary) == 0 {
		return append([]string(nil), observation.DefaultElements...)
	}
	return append([]string(nil), d.ElementLibrary...)
}

// Marshal encodes the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// WriteFile saves the document to path.
func WriteFile(path string, doc *Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}

// ReadFile loads a document from path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	return Unmarshal(data)
}
