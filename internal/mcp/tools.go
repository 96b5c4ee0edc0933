package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/domain/viewport"
)

// addTool registers a typed tool whose domain errors are mapped to APIError.
func addTool[In, Out any](server *sdkmcp.Server, name, description string, fn func(context.Context, In) (Out, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
			out, err := fn(ctx, in)
			if err != nil {
				var zero Out
				return nil, zero, mapError(err)
			}
			return nil, out, nil
		})
}

func asStatus(st *study.Status, err error) (StatusResponse, error) {
	if err != nil {
		return StatusResponse{}, err
	}
	return toStatus(st), nil
}

func registerTools(server *sdkmcp.Server, svc StudyService) {
	registerVideoTools(server, svc)
	registerPlaybackTools(server, svc)
	registerEntryTools(server, svc)
	registerLibraryTools(server, svc)
	registerViewTools(server, svc)
	registerProjectTools(server, svc)
	registerExchangeTools(server, svc)
}

func registerVideoTools(server *sdkmcp.Server, svc StudyService) {
	addTool(server, "open_video",
		"Open a video file as a new study. Discards the current log and starts playback.",
		func(ctx context.Context, in PathParams) (VideoResponse, error) {
			info, err := svc.OpenVideo(ctx, in.Path)
			if err != nil {
				return VideoResponse{}, err
			}
			return toVideo(info), nil
		})

	addTool(server, "append_videos",
		"Append video files as further segments of the virtual timeline. Entries are kept.",
		func(ctx context.Context, in AppendVideosParams) (VideoResponse, error) {
			info, err := svc.AppendVideos(ctx, in.Paths...)
			if err != nil {
				return VideoResponse{}, err
			}
			return toVideo(info), nil
		})
}

func registerPlaybackTools(server *sdkmcp.Server, svc StudyService) {
	addTool(server, "play", "Start playback.",
		func(ctx context.Context, _ EmptyParams) (StatusResponse, error) {
			if err := svc.Play(ctx); err != nil {
				return StatusResponse{}, err
			}
			return asStatus(svc.Status(ctx))
		})

	addTool(server, "pause", "Pause playback.",
		func(ctx context.Context, _ EmptyParams) (StatusResponse, error) {
			if err := svc.Pause(ctx); err != nil {
				return StatusResponse{}, err
			}
			return asStatus(svc.Status(ctx))
		})

	addTool(server, "seek", "Move the playhead to a position on the virtual timeline.",
		func(ctx context.Context, in SeekParams) (StatusResponse, error) {
			return asStatus(svc.Seek(ctx, in.Seconds))
		})

	addTool(server, "step", "Step by frames, or skip by seconds when frames is zero.",
		func(ctx context.Context, in StepParams) (StatusResponse, error) {
			delta := in.Seconds
			if in.Frames != 0 {
				delta = float64(in.Frames) * timeline.FrameStep
			}
			if delta == 0 {
				return StatusResponse{}, fmt.Errorf("%w: frames or seconds is required", study.ErrInvalidInput)
			}
			return asStatus(svc.Step(ctx, delta))
		})

	addTool(server, "set_speed", "Set the playback speed ratio.",
		func(ctx context.Context, in SetSpeedParams) (StatusResponse, error) {
			return asStatus(svc.SetSpeed(ctx, in.Ratio))
		})

	addTool(server, "get_status", "Get playback position, view state and the track summary line.",
		func(ctx context.Context, _ EmptyParams) (StatusResponse, error) {
			return asStatus(svc.Status(ctx))
		})
}

func registerEntryTools(server *sdkmcp.Server, svc StudyService) {
	addTool(server, "mark", "Record an observation at the playhead. A frame thumbnail is captured in the background.",
		func(ctx context.Context, in MarkParams) (EntryResponse, error) {
			e, err := svc.Mark(ctx, study.MarkRequest{
				ElementName:  in.ElementName,
				Description:  in.Description,
				Observations: in.Observations,
				People:       in.People,
				Category:     in.Category,
				Track:        in.Track,
			})
			if err != nil {
				return EntryResponse{}, err
			}
			return toEntry(*e), nil
		})

	addTool(server, "mark_away", "Record an Away/Waiting observation at the playhead.",
		func(ctx context.Context, in MarkAwayParams) (EntryResponse, error) {
			e, err := svc.MarkAway(ctx, in.Track)
			if err != nil {
				return EntryResponse{}, err
			}
			return toEntry(*e), nil
		})

	addTool(server, "update_entry", "Edit fields of an entry. Omitted fields are kept.",
		func(ctx context.Context, in UpdateEntryParams) (EntryResponse, error) {
			e, err := svc.UpdateEntry(ctx, in.ID, study.EntryUpdate{
				ElementName:  in.ElementName,
				Description:  in.Description,
				Observations: in.Observations,
				People:       in.People,
				Category:     in.Category,
				Track:        in.Track,
			})
			if err != nil {
				return EntryResponse{}, err
			}
			return toEntry(*e), nil
		})

	addTool(server, "delete_entry", "Delete an entry. Durations are recalculated.",
		func(ctx context.Context, in EntryIDParams) (StatusOK, error) {
			if err := svc.DeleteEntry(ctx, in.ID); err != nil {
				return StatusOK{}, err
			}
			return StatusOK{Status: "deleted"}, nil
		})

	addTool(server, "clear_entries", "Delete every entry.",
		func(ctx context.Context, _ EmptyParams) (ClearEntriesResponse, error) {
			n, err := svc.ClearEntries(ctx)
			if err != nil {
				return ClearEntriesResponse{}, err
			}
			return ClearEntriesResponse{Removed: n}, nil
		})

	addTool(server, "list_entries", "List entries in timestamp order.",
		func(ctx context.Context, _ EmptyParams) (EntryListResponse, error) {
			entries, err := svc.Entries(ctx)
			if err != nil {
				return EntryListResponse{}, err
			}
			resp := EntryListResponse{Entries: make([]EntryResponse, 0, len(entries))}
			for _, e := range entries {
				resp.Entries = append(resp.Entries, toEntry(e))
			}
			return resp, nil
		})

	addTool(server, "get_summary", "Get per-track, per-element and overall statistics.",
		func(ctx context.Context, _ EmptyParams) (SummaryResponse, error) {
			r, err := svc.Summary(ctx)
			if err != nil {
				return SummaryResponse{}, err
			}
			return toSummary(r), nil
		})
}

func registerLibraryTools(server *sdkmcp.Server, svc StudyService) {
	addTool(server, "rename_track", "Rename a track. An empty name restores the default label.",
		func(ctx context.Context, in RenameTrackParams) (StatusOK, error) {
			if err := svc.RenameTrack(ctx, in.Track, in.Name); err != nil {
				return StatusOK{}, err
			}
			return StatusOK{Status: "ok"}, nil
		})

	addTool(server, "set_elements", "Replace the element library, or add one element.",
		func(ctx context.Context, in SetElementsParams) (ElementsResponse, error) {
			var err error
			if strings.TrimSpace(in.Add) != "" {
				err = svc.AddElement(ctx, in.Add)
			} else {
				err = svc.SetElements(ctx, in.Names)
			}
			if err != nil {
				return ElementsResponse{}, err
			}
			elements, err := svc.Elements(ctx)
			if err != nil {
				return ElementsResponse{}, err
			}
			return ElementsResponse{Elements: elements}, nil
		})
}

func registerViewTools(server *sdkmcp.Server, svc StudyService) {
	addTool(server, "zoom_timeline", "Zoom the timeline. With at, zoom by the wheel factor about that x; otherwise step.",
		func(ctx context.Context, in ZoomTimelineParams) (StatusResponse, error) {
			if in.At != nil {
				return asStatus(svc.ZoomTimeline(ctx, *in.At, in.In))
			}
			return asStatus(svc.ZoomTimelineStep(ctx, in.In))
		})

	addTool(server, "fit_timeline", "Fit the whole timeline into the view.",
		func(ctx context.Context, _ EmptyParams) (StatusResponse, error) {
			return asStatus(svc.FitTimeline(ctx))
		})

	addTool(server, "pan_timeline", "Scroll the timeline horizontally by dx pixels.",
		func(ctx context.Context, in PanTimelineParams) (StatusResponse, error) {
			return asStatus(svc.PanTimeline(ctx, in.DX))
		})

	addTool(server, "zoom_preview", "Zoom the video preview about a viewport point.",
		func(ctx context.Context, in ZoomPreviewParams) (StatusResponse, error) {
			return asStatus(svc.ZoomPreview(ctx, viewport.Point{X: in.X, Y: in.Y}, in.In))
		})

	addTool(server, "pan_preview", "Pan the video preview, or recenter it.",
		func(ctx context.Context, in PanPreviewParams) (StatusResponse, error) {
			if in.Center {
				return asStatus(svc.CenterPreview(ctx))
			}
			return asStatus(svc.PanPreview(ctx, in.DX, in.DY))
		})

	addTool(server, "timeline_pointer", "Send a pointer event to the timeline: click to seek, drag to scrub, middle-drag to pan.",
		func(ctx context.Context, in TimelinePointerParams) (StatusResponse, error) {
			return asStatus(svc.TimelinePointer(ctx, study.PointerEvent{
				Kind: study.PointerKind(in.Kind),
				X:    in.X,
				Y:    in.Y,
			}))
		})
}

func registerProjectTools(server *sdkmcp.Server, svc StudyService) {
	addTool(server, "save_project", "Save the study to the project store.",
		func(ctx context.Context, in SaveProjectParams) (ProjectResponse, error) {
			proj, err := svc.SaveProject(ctx, in.Name)
			if err != nil {
				return ProjectResponse{}, err
			}
			return toProject(proj), nil
		})

	addTool(server, "load_project", "Replace the study with a saved project.",
		func(ctx context.Context, in ProjectIDParams) (LoadResponse, error) {
			r, err := svc.LoadProject(ctx, in.ID)
			if err != nil {
				return LoadResponse{}, err
			}
			return toLoad(r), nil
		})

	addTool(server, "list_projects", "List saved projects, most recently updated first.",
		func(ctx context.Context, _ EmptyParams) (ProjectListResponse, error) {
			list, err := svc.ListProjects(ctx)
			if err != nil {
				return ProjectListResponse{}, err
			}
			resp := ProjectListResponse{Projects: make([]ProjectResponse, 0, len(list))}
			for _, p := range list {
				resp.Projects = append(resp.Projects, toProjectSummary(p))
			}
			return resp, nil
		})

	addTool(server, "save_project_file", "Write the study to a project file ("+project.FileExtension+" is added when missing).",
		func(ctx context.Context, in PathParams) (SaveFileResponse, error) {
			path, err := svc.SaveProjectFile(ctx, in.Path)
			if err != nil {
				return SaveFileResponse{}, err
			}
			return SaveFileResponse{Path: path}, nil
		})

	addTool(server, "open_project_file", "Replace the study with the contents of a project file.",
		func(ctx context.Context, in PathParams) (LoadResponse, error) {
			r, err := svc.OpenProjectFile(ctx, in.Path)
			if err != nil {
				return LoadResponse{}, err
			}
			return toLoad(r), nil
		})
}

func registerExchangeTools(server *sdkmcp.Server, svc StudyService) {
	addTool(server, "export_csv", "Export the observation log as CSV.",
		func(ctx context.Context, in PathParams) (ExportResponse, error) {
			n, err := svc.ExportCSV(ctx, in.Path)
			if err != nil {
				return ExportResponse{}, err
			}
			return ExportResponse{Path: in.Path, Rows: n}, nil
		})

	addTool(server, "import_csv", "Replace the observation log with a CSV export. Malformed rows are skipped.",
		func(ctx context.Context, in PathParams) (ImportResponse, error) {
			r, err := svc.ImportCSV(ctx, in.Path)
			if err != nil {
				return ImportResponse{}, err
			}
			return ImportResponse{Imported: r.Imported, Skipped: r.Skipped}, nil
		})

	addTool(server, "export_spreadsheet", "Export the log and an element summary as a SpreadsheetML workbook.",
		func(ctx context.Context, in PathParams) (ExportResponse, error) {
			n, err := svc.ExportSpreadsheet(ctx, in.Path)
			if err != nil {
				return ExportResponse{}, err
			}
			return ExportResponse{Path: in.Path, Rows: n}, nil
		})

	addTool(server, "regenerate_thumbnails", "Capture thumbnails for entries that have none.",
		func(ctx context.Context, _ EmptyParams) (ThumbnailResponse, error) {
			r, err := svc.RegenerateThumbnails(ctx)
			if err != nil {
				return ThumbnailResponse{}, err
			}
			return ThumbnailResponse{Regenerated: r.Regenerated, Failed: r.Failed}, nil
		})

	addTool(server, "get_recent_activity", "List recent edits to the study, newest first.",
		func(ctx context.Context, in GetRecentActivityParams) (ActivityListResponse, error) {
			entries, err := svc.RecentActivity(ctx, in.Limit)
			if err != nil {
				return ActivityListResponse{}, err
			}
			resp := ActivityListResponse{Activity: make([]ActivityEntryResponse, 0, len(entries))}
			for _, e := range entries {
				item := ActivityEntryResponse{
					Timestamp: formatTime(e.CreatedAt),
					Type:      e.ActivityType,
					ProjectID: e.ProjectID,
					Summary:   e.Summary,
				}
				if e.EntryID != nil {
					item.EntryID = *e.EntryID
				}
				resp.Activity = append(resp.Activity, item)
			}
			return resp, nil
		})
}
