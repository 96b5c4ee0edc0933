package activity

import "time"

// ActivityType names an edit recorded in the study audit trail.
type ActivityType string

const (
	TypeVideoOpened    ActivityType = "video_opened"
	TypeVideoAppended  ActivityType = "video_appended"
	TypeEntryMarked    ActivityType = "entry_marked"
	TypeEntryUpdated   ActivityType = "entry_updated"
	TypeEntryDeleted   ActivityType = "entry_deleted"
	TypeEntriesCleared ActivityType = "entries_cleared"
	TypeProjectSaved   ActivityType = "project_saved"
	TypeProjectLoaded  ActivityType = "project_loaded"
	TypeCSVImported    ActivityType = "csv_imported"
	TypeExported       ActivityType = "exported"
)

// ActivityEntry is one event in the activity log. ProjectID is empty for
// edits made before the study was first saved.
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id,omitempty"`
	EntryID      *string      `json:"entry_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
