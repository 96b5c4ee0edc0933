package observation

import (
	"fmt"
	"time"
)

const (
	// MinTrack and MaxTrack bound the track tag. Track 0 is the unassigned "M" lane.
	MinTrack = 0
	MaxTrack = 5

	// AwayElement names the entry recorded by the away/waiting mark.
	AwayElement = "Away/Waiting"

	// DefaultPeople is stored on new entries.
	DefaultPeople = "1"
)

// DefaultElements is the starting element library.
var DefaultElements = []string{
	"Reach", "Grasp", "Move", "Position", "Release", "Inspect", "Assemble",
	"Disassemble", "Use", "Wait", "Search", "Select", "Plan", "Hold",
}

// DefaultTrackNames returns the display names for tracks 0..5.
func DefaultTrackNames() map[int]string {
	names := make(map[int]string, MaxTrack+1)
	for track := MinTrack; track <= MaxTrack; track++ {
		names[track] = TrackLabel(track)
	}
	return names
}

// TrackLabel is the default display name of a track.
func TrackLabel(track int) string {
	if track == 0 {
		return "Seg M"
	}
	return fmt.Sprintf("Seg %d", track)
}

// ShortLabel is the compact track label used in summaries.
func ShortLabel(track int) string {
	if track == 0 {
		return "M"
	}
	return fmt.Sprintf("%d", track)
}

// Entry is a single timestamped observation on the virtual timeline.
type Entry struct {
	ID              string        `json:"id"`
	Timestamp       time.Duration `json:"timestamp"`
	DurationSeconds float64       `json:"duration_seconds"`
	ElementName     string        `json:"element_name"`
	Description     string        `json:"description"`
	Observations    string        `json:"observations"`
	People          string        `json:"people"`
	Category        string        `json:"category"`
	Track           int           `json:"track"`
	Thumbnail       []byte        `json:"-"`
}

// Seconds returns the timestamp in seconds.
func (e Entry) Seconds() float64 {
	return e.Timestamp.Seconds()
}

// PeopleCount soft-parses People.
func (e Entry) PeopleCount() float64 {
	return ParsePeople(e.People)
}

// HasThumbnail reports whether a frame was captured for the entry.
func (e Entry) HasThumbnail() bool {
	return len(e.Thumbnail) > 0
}

// ValidTrack reports whether track is within the supported range.
func ValidTrack(track int) bool {
	return track >= MinTrack && track <= MaxTrack
}
