package mcp

import (
	"time"

	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/domain/summary"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/domain/viewport"
)

type EmptyParams struct{}

type PathParams struct {
	Path string `json:"path" jsonschema:"absolute path of the file"`
}

type AppendVideosParams struct {
	Paths []string `json:"paths" jsonschema:"video files appended in order after the current segments"`
}

type SeekParams struct {
	Seconds float64 `json:"seconds" jsonschema:"target position on the virtual timeline in seconds"`
}

type StepParams struct {
	Frames  int     `json:"frames,omitempty" jsonschema:"number of frames to step; negative steps backwards"`
	Seconds float64 `json:"seconds,omitempty" jsonschema:"seconds to skip; used when frames is zero"`
}

type SetSpeedParams struct {
	Ratio float64 `json:"ratio" jsonschema:"playback speed ratio in (0, 16]"`
}

type MarkParams struct {
	ElementName  string `json:"element_name,omitempty" jsonschema:"element from the library"`
	Description  string `json:"description,omitempty"`
	Observations string `json:"observations,omitempty"`
	People       string `json:"people,omitempty" jsonschema:"people count; defaults to 1"`
	Category     string `json:"category,omitempty"`
	Track        int    `json:"track,omitempty" jsonschema:"track tag 0..5; 0 is the unassigned lane"`
}

type MarkAwayParams struct {
	Track int `json:"track,omitempty" jsonschema:"track tag 0..5"`
}

type UpdateEntryParams struct {
	ID           string  `json:"id"`
	ElementName  *string `json:"element_name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Observations *string `json:"observations,omitempty"`
	People       *string `json:"people,omitempty"`
	Category     *string `json:"category,omitempty"`
	Track        *int    `json:"track,omitempty"`
}

type EntryIDParams struct {
	ID string `json:"id"`
}

type RenameTrackParams struct {
	Track int    `json:"track" jsonschema:"track tag 0..5"`
	Name  string `json:"name" jsonschema:"display name; empty restores the default"`
}

type SetElementsParams struct {
	Names []string `json:"names" jsonschema:"replacement element library"`
	Add   string   `json:"add,omitempty" jsonschema:"single element appended instead of replacing"`
}

type ZoomTimelineParams struct {
	In bool     `json:"in" jsonschema:"true zooms in; false zooms out"`
	At *float64 `json:"at,omitempty" jsonschema:"viewport x coordinate for wheel zoom; omit for a step zoom"`
}

type ZoomPreviewParams struct {
	In bool    `json:"in"`
	X  float64 `json:"x,omitempty" jsonschema:"viewport x of the zoom anchor"`
	Y  float64 `json:"y,omitempty" jsonschema:"viewport y of the zoom anchor"`
}

type PanPreviewParams struct {
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Center bool    `json:"center,omitempty" jsonschema:"recenter the content instead of panning"`
}

type PanTimelineParams struct {
	DX float64 `json:"dx"`
}

type TimelinePointerParams struct {
	Kind string  `json:"kind" jsonschema:"down, move, up, middle_down, middle_up or capture_lost"`
	X    float64 `json:"x"`
	Y    float64 `json:"y,omitempty"`
}

type SaveProjectParams struct {
	Name string `json:"name,omitempty" jsonschema:"project name; defaults to the current name"`
}

type ProjectIDParams struct {
	ID string `json:"id"`
}

type GetRecentActivityParams struct {
	Limit int `json:"limit,omitempty"`
}

type SegmentResponse struct {
	FilePath  string  `json:"file_path"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

type VideoResponse struct {
	Segments []SegmentResponse `json:"segments"`
	Total    float64           `json:"total"`
}

type ViewportResponse struct {
	Zoom    float64 `json:"zoom"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

type ProjectIdentity struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Revision int64  `json:"revision,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

type StatusResponse struct {
	Loaded        bool             `json:"loaded"`
	Playing       bool             `json:"playing"`
	Position      float64          `json:"position"`
	Timestamp     string           `json:"timestamp"`
	Total         float64          `json:"total"`
	Segment       int              `json:"segment"`
	SegmentOffset float64          `json:"segment_offset"`
	Segments      int              `json:"segments"`
	Frame         int              `json:"frame"`
	Speed         float64          `json:"speed"`
	LowFidelity   bool             `json:"low_fidelity"`
	Scrub         string           `json:"scrub"`
	Indicator     float64          `json:"indicator"`
	Entries       int              `json:"entries"`
	Dirty         bool             `json:"dirty"`
	Project       ProjectIdentity  `json:"project"`
	Timeline      ViewportResponse `json:"timeline"`
	Preview       ViewportResponse `json:"preview"`
	StatusLine    string           `json:"status_line"`
	LastError     string           `json:"last_error,omitempty"`
}

type EntryResponse struct {
	ID              string  `json:"id"`
	Timestamp       string  `json:"timestamp"`
	Seconds         float64 `json:"seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	ElementName     string  `json:"element_name"`
	Description     string  `json:"description,omitempty"`
	Observations    string  `json:"observations,omitempty"`
	People          string  `json:"people"`
	Category        string  `json:"category,omitempty"`
	Track           int     `json:"track"`
	HasThumbnail    bool    `json:"has_thumbnail"`
}

type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

type ClearEntriesResponse struct {
	Removed int `json:"removed"`
}

type StatusOK struct {
	Status string `json:"status"`
}

type TrackSummary struct {
	Track     int     `json:"track"`
	Name      string  `json:"name"`
	Caption   string  `json:"caption"`
	Count     int     `json:"count"`
	TotalTime float64 `json:"total_time"`
	AvgTime   float64 `json:"avg_time"`
}

type ElementSummary struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	TotalTime float64 `json:"total_time"`
	AvgTime   float64 `json:"avg_time"`
	MinTime   float64 `json:"min_time"`
	MaxTime   float64 `json:"max_time"`
	StdDev    float64 `json:"std_dev"`
	Color     string  `json:"color,omitempty"`
}

type SummaryResponse struct {
	StatusLine string           `json:"status_line"`
	Tracks     []TrackSummary   `json:"tracks"`
	Elements   []ElementSummary `json:"elements"`
	Overall    summary.Stats    `json:"overall"`
}

type ElementsResponse struct {
	Elements []string `json:"elements"`
}

type ProjectResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PrimaryVideo  string  `json:"primary_video,omitempty"`
	EntryCount    int     `json:"entry_count"`
	TotalDuration float64 `json:"total_duration"`
	Revision      int64   `json:"revision"`
	UpdatedAt     string  `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type LoadResponse struct {
	Project           ProjectIdentity `json:"project"`
	Segments          int             `json:"segments"`
	Total             float64         `json:"total"`
	Entries           int             `json:"entries"`
	Skipped           int             `json:"skipped"`
	MissingThumbnails int             `json:"missing_thumbnails"`
	MediaError        string          `json:"media_error,omitempty"`
}

type SaveFileResponse struct {
	Path string `json:"path"`
}

type ExportResponse struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type ThumbnailResponse struct {
	Regenerated int `json:"regenerated"`
	Failed      int `json:"failed"`
}

type ActivityEntryResponse struct {
	Timestamp string                `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	ProjectID string                `json:"project_id,omitempty"`
	EntryID   string                `json:"entry_id,omitempty"`
	Summary   string                `json:"summary"`
}

type ActivityListResponse struct {
	Activity []ActivityEntryResponse `json:"activity"`
}

func toSegments(segments []timeline.Segment) []SegmentResponse {
	out := make([]SegmentResponse, 0, len(segments))
	for _, s := range segments {
		out = append(out, SegmentResponse{FilePath: s.FilePath, StartTime: s.StartTime, Duration: s.Duration})
	}
	return out
}

func toVideo(info *study.VideoInfo) VideoResponse {
	return VideoResponse{Segments: toSegments(info.Segments), Total: info.Total}
}

func toViewport(s viewport.State) ViewportResponse {
	return ViewportResponse{Zoom: s.Zoom, OffsetX: s.OffsetX, OffsetY: s.OffsetY}
}

func toIdentity(id study.Identity) ProjectIdentity {
	return ProjectIdentity{ID: id.ID, Name: id.Name, Revision: id.Revision, FilePath: id.FilePath}
}

func toStatus(s *study.Status) StatusResponse {
	return StatusResponse{
		Loaded:        s.Loaded,
		Playing:       s.Playing,
		Position:      s.Position,
		Timestamp:     observation.FormatTimestamp(time.Duration(s.Position * float64(time.Second))),
		Total:         s.Total,
		Segment:       s.Segment,
		SegmentOffset: s.SegmentOffset,
		Segments:      s.Segments,
		Frame:         s.Frame,
		Speed:         s.Speed,
		LowFidelity:   s.LowFidelity,
		Scrub:         s.Scrub,
		Indicator:     s.Indicator,
		Entries:       s.Entries,
		Dirty:         s.Dirty,
		Project:       toIdentity(s.Project),
		Timeline:      toViewport(s.Timeline),
		Preview:       toViewport(s.Preview),
		StatusLine:    s.StatusLine,
		LastError:     s.LastError,
	}
}

func toEntry(e observation.Entry) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		Timestamp:       observation.FormatTimestamp(e.Timestamp),
		Seconds:         e.Seconds(),
		DurationSeconds: e.DurationSeconds,
		ElementName:     e.ElementName,
		Description:     e.Description,
		Observations:    e.Observations,
		People:          e.People,
		Category:        e.Category,
		Track:           e.Track,
		HasThumbnail:    e.HasThumbnail(),
	}
}

func toSummary(r *study.Report) SummaryResponse {
	resp := SummaryResponse{
		StatusLine: r.StatusLine,
		Tracks:     make([]TrackSummary, 0, len(r.Tracks)),
		Elements:   make([]ElementSummary, 0, len(r.Elements)),
		Overall:    r.Overall,
	}
	for _, t := range r.Tracks {
		resp.Tracks = append(resp.Tracks, TrackSummary{
			Track:     t.Track,
			Name:      r.TrackNames[t.Track],
			Caption:   r.Captions[t.Track],
			Count:     t.Count,
			TotalTime: t.TotalTime,
			AvgTime:   t.AvgTime,
		})
	}
	for _, e := range r.Elements {
		resp.Elements = append(resp.Elements, ElementSummary{
			Name:      e.Name,
			Count:     e.Count,
			TotalTime: e.TotalTime,
			AvgTime:   e.AvgTime,
			MinTime:   e.MinTime,
			MaxTime:   e.MaxTime,
			StdDev:    e.StdDev,
			Color:     r.Colors[e.Name],
		})
	}
	return resp
}

func toProject(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		PrimaryVideo:  p.PrimaryVideo,
		EntryCount:    p.EntryCount,
		TotalDuration: p.TotalDuration,
		Revision:      p.Revision,
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

func toProjectSummary(p project.ProjectSummary) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		PrimaryVideo:  p.PrimaryVideo,
		EntryCount:    p.EntryCount,
		TotalDuration: p.TotalDuration,
		Revision:      p.Revision,
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

func toLoad(r *study.LoadResult) LoadResponse {
	return LoadResponse{
		Project:           toIdentity(r.Project),
		Segments:          r.Segments,
		Total:             r.Total,
		Entries:           r.Entries,
		Skipped:           r.Skipped,
		MissingThumbnails: r.MissingThumbnails,
		MediaError:        r.MediaError,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
