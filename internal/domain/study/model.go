package study

import (
	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/summary"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/domain/viewport"
)

// Identity names the project a session was loaded from or saved to.
type Identity struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Revision int64  `json:"revision,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// Status is a snapshot of playback and view state.
type Status struct {
	Loaded        bool           `json:"loaded"`
	Playing       bool           `json:"playing"`
	Position      float64        `json:"position"`
	Total         float64        `json:"total"`
	Segment       int            `json:"segment"`
	SegmentOffset float64        `json:"segment_offset"`
	Segments      int            `json:"segments"`
	Frame         int            `json:"frame"`
	Speed         float64        `json:"speed"`
	LowFidelity   bool           `json:"low_fidelity"`
	Scrub         string         `json:"scrub"`
	Indicator     float64        `json:"indicator"`
	Entries       int            `json:"entries"`
	Dirty         bool           `json:"dirty"`
	Project       Identity       `json:"project"`
	Timeline      viewport.State `json:"timeline"`
	Preview       viewport.State `json:"preview"`
	StatusLine    string         `json:"status_line"`
	LastError     string         `json:"last_error,omitempty"`
}

// VideoInfo describes the loaded segment sequence.
type VideoInfo struct {
	Segments []timeline.Segment `json:"segments"`
	Total    float64            `json:"total"`
}

// MarkRequest describes a new observation at the playhead.
type MarkRequest struct {
	ElementName  string
	Description  string
	Observations string
	People       string
	Category     string
	Track        int
}

// EntryUpdate lists the fields to change on an entry. Nil fields are kept.
type EntryUpdate struct {
	ElementName  *string
	Description  *string
	Observations *string
	People       *string
	Category     *string
	Track        *int
}

// Report is the aggregate view of the observation log.
type Report struct {
	Tracks     []summary.TrackStat   `json:"tracks"`
	StatusLine string                `json:"status_line"`
	Captions   map[int]string        `json:"captions"`
	TrackNames map[int]string        `json:"track_names"`
	Elements   []summary.ElementStat `json:"elements"`
	Colors     map[string]string     `json:"colors"`
	Overall    summary.Stats         `json:"overall"`
}

// PointerKind identifies a timeline pointer event.
type PointerKind string

const (
	PointerDown        PointerKind = "down"
	PointerMove        PointerKind = "move"
	PointerUp          PointerKind = "up"
	PointerMiddleDown  PointerKind = "middle_down"
	PointerMiddleUp    PointerKind = "middle_up"
	PointerCaptureLost PointerKind = "capture_lost"
)

// PointerEvent is raw input on the timeline surface.
type PointerEvent struct {
	Kind PointerKind
	X    float64
	Y    float64
}

// LoadResult reports what a project load restored.
type LoadResult struct {
	Project           Identity `json:"project"`
	Segments          int      `json:"segments"`
	Total             float64  `json:"total"`
	Entries           int      `json:"entries"`
	Skipped           int      `json:"skipped"`
	MissingThumbnails int      `json:"missing_thumbnails"`
	MediaError        string   `json:"media_error,omitempty"`
}

// ThumbnailResult counts a thumbnail regeneration pass.
type ThumbnailResult struct {
	Regenerated int `json:"regenerated"`
	Failed      int `json:"failed"`
}

// ImportResult counts a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// entrySnapshot is what the service needs outside the loop to export.
type entrySnapshot struct {
	primary string
	entries []observation.Entry
}
