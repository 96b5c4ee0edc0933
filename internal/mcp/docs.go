package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `timestudy annotates work videos for industrial time studies.

Model:
- Virtual timeline: one or more video files played back to back as a single clock.
- Entry: an observation (element, people, track 0..5) at a timestamp. Its duration runs to the next entry, or to the end of the video for the last one.
- Tracks: six lanes ("Seg M", "Seg 1".."Seg 5") used to split the log by operator or station.

Typical workflow:
1) open_video (then append_videos for split recordings).
2) seek / step / play to find an event, then mark with an element name. mark_away records idle time.
3) list_entries and update_entry to fix mistakes; durations recalculate on every edit.
4) get_summary for per-track and per-element statistics.
5) save_project or save_project_file; export_csv or export_spreadsheet for reports.

Docs:
- timestudy://docs/index
- timestudy://docs/timeline
- timestudy://docs/projects
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "timestudy://docs/index",
		Name:        "docs_index",
		Title:       "timestudy docs index",
		Description: "What the server does and which tools to reach for first.",
		Content: `# timestudy: Docs Index

## Quick start

1. ` + "`open_video`" + ` with an absolute path. Playback starts at 0.
2. ` + "`seek`" + ` or ` + "`step`" + ` (frames or seconds) to the start of a work element.
3. ` + "`mark`" + ` with ` + "`element_name`" + ` and optionally ` + "`track`" + `, ` + "`people`" + `, ` + "`category`" + `.
4. Repeat. ` + "`get_summary`" + ` shows totals as you go.
5. ` + "`save_project`" + ` to keep the study.

## Docs

- ` + "`timestudy://docs/timeline`" + ` - segments, durations and view tools.
- ` + "`timestudy://docs/projects`" + ` - saving, loading, CSV and spreadsheet exchange.
`,
	},
	{
		URI:         "timestudy://docs/timeline",
		Name:        "docs_timeline",
		Title:       "Timeline and durations",
		Description: "How segments, timestamps and durations relate.",
		Content: `# Timeline and durations

## Segments

` + "`append_videos`" + ` adds files after the current ones. Each file starts where the previous one ends, so a timestamp names one instant across the whole recording. ` + "`get_status`" + ` reports both the global position and the segment-local offset.

## Durations

Entries are kept sorted by timestamp. An entry lasts until the next entry's timestamp; the last entry lasts until the end of the timeline. Every insert, delete or append recalculates durations, so they are never edited directly.

Entries marked at the same timestamp keep their marking order.

## Timestamps

Timestamps are written ` + "`hh:mm:ss`" + ` or ` + "`hh:mm:ss.fff`" + `.

## View tools

- ` + "`zoom_timeline`" + ` steps the zoom, or zooms about ` + "`at`" + ` like a mouse wheel.
- ` + "`fit_timeline`" + ` shows the whole recording.
- ` + "`timeline_pointer`" + ` replays pointer input: a click seeks, a drag scrubs with playback paused, a middle-button drag pans.
- ` + "`zoom_preview`" + ` and ` + "`pan_preview`" + ` move the video preview.
`,
	},
	{
		URI:         "timestudy://docs/projects",
		Name:        "docs_projects",
		Title:       "Projects and exchange formats",
		Description: "Saving studies and moving logs in and out.",
		Content: `# Projects and exchange formats

## Project store

` + "`save_project`" + ` stores the study and returns a revision. Saving again requires that nobody else saved in between; a ` + "`CONFLICT`" + ` error means the stored project moved on, so reload before saving.

` + "`load_project`" + ` restores segments, entries, track names and the element library. Missing video files are reported in ` + "`media_error`" + ` and the log is still loaded.

## Project files

` + "`save_project_file`" + ` writes a ` + "`.vtsp`" + ` JSON file with embedded thumbnails. ` + "`open_project_file`" + ` reads one back.

## CSV

` + "`export_csv`" + ` writes a video line, a header and one row per entry. ` + "`import_csv`" + ` reads the same layout; rows with malformed timestamps are skipped and counted.

## Spreadsheet

` + "`export_spreadsheet`" + ` writes a SpreadsheetML workbook with the log and an element summary sheet.

## Thumbnails

Each mark captures a frame in the background. After loading a project whose thumbnails are missing, call ` + "`regenerate_thumbnails`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
