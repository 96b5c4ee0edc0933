package study

import (
	"context"
	"time"

	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/scrub"
)

// DurationProbe reports the natural duration of a media file in seconds.
type DurationProbe interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// FrameCapture grabs an encoded still of path at a local offset.
type FrameCapture interface {
	Capture(ctx context.Context, path string, offset float64) ([]byte, error)
}

// ProjectStore persists saved projects.
type ProjectStore interface {
	Save(ctx context.Context, req project.SaveRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
}

// ActivityLogger records the study audit trail.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Loop is the single goroutine owning all session state.
type Loop interface {
	Call(ctx context.Context, fn func() error) error
	Post(fn func()) bool
	Every(interval time.Duration, fn func()) scrub.Timer
}
