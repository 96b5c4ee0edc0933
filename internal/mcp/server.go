package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/domain/viewport"
)

// StudyService defines the time study operations exposed as tools.
type StudyService interface {
	OpenVideo(ctx context.Context, path string) (*study.VideoInfo, error)
	AppendVideos(ctx context.Context, paths ...string) (*study.VideoInfo, error)

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) (*study.Status, error)
	Step(ctx context.Context, delta float64) (*study.Status, error)
	SetSpeed(ctx context.Context, ratio float64) (*study.Status, error)
	Status(ctx context.Context) (*study.Status, error)

	Mark(ctx context.Context, req study.MarkRequest) (*observation.Entry, error)
	MarkAway(ctx context.Context, track int) (*observation.Entry, error)
	UpdateEntry(ctx context.Context, id string, upd study.EntryUpdate) (*observation.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	ClearEntries(ctx context.Context) (int, error)
	Entries(ctx context.Context) ([]observation.Entry, error)
	Summary(ctx context.Context) (*study.Report, error)

	RenameTrack(ctx context.Context, track int, name string) error
	SetElements(ctx context.Context, names []string) error
	AddElement(ctx context.Context, name string) error
	Elements(ctx context.Context) ([]string, error)

	ZoomTimeline(ctx context.Context, at float64, in bool) (*study.Status, error)
	ZoomTimelineStep(ctx context.Context, in bool) (*study.Status, error)
	FitTimeline(ctx context.Context) (*study.Status, error)
	PanTimeline(ctx context.Context, dx float64) (*study.Status, error)
	ZoomPreview(ctx context.Context, at viewport.Point, in bool) (*study.Status, error)
	PanPreview(ctx context.Context, dx, dy float64) (*study.Status, error)
	CenterPreview(ctx context.Context) (*study.Status, error)
	TimelinePointer(ctx context.Context, ev study.PointerEvent) (*study.Status, error)

	SaveProject(ctx context.Context, name string) (*project.Project, error)
	LoadProject(ctx context.Context, id string) (*study.LoadResult, error)
	ListProjects(ctx context.Context) ([]project.ProjectSummary, error)
	SaveProjectFile(ctx context.Context, path string) (string, error)
	OpenProjectFile(ctx context.Context, path string) (*study.LoadResult, error)

	ExportCSV(ctx context.Context, path string) (int, error)
	ImportCSV(ctx context.Context, path string) (*study.ImportResult, error)
	ExportSpreadsheet(ctx context.Context, path string) (int, error)
	RegenerateThumbnails(ctx context.Context) (*study.ThumbnailResult, error)
	RecentActivity(ctx context.Context, limit int) ([]activity.ActivityEntry, error)
}

// Config contains server configuration.
type Config struct {
	Study         StudyService
	AuthToken     string // required bearer token in HTTP mode; empty disables auth
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "timestudy",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only; the token applies to HTTP.
	if cfg.TransportMode != "stdio" && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(tokenMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))
	// Added last so it wraps the others and they see the session ID.
	server.AddReceivingMiddleware(sessionMiddleware())

	registerTools(server, cfg.Study)

	return server
}
