// Package testserver runs the full HTTP stack in-process against a
// virtual player and an in-memory database.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/domain/timeline"
	"github.com/rpggio/timestudy/internal/eventloop"
	"github.com/rpggio/timestudy/internal/mcp"
	"github.com/rpggio/timestudy/internal/media"
	"github.com/rpggio/timestudy/internal/repository/mocks"
	"github.com/rpggio/timestudy/internal/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Study  *study.Service
	Token  string
}

// Durations reported for the fake media files. Any other path fails to open.
var Durations = map[string]float64{
	"line.mp4":  60,
	"line2.mp4": 30,
}

// New starts a server requiring token. An empty token disables auth.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	probe := &mocks.DurationProbe{}
	for path, seconds := range Durations {
		probe.On("Probe", mock.Anything, path).Return(seconds, nil).Maybe()
	}
	probe.On("Probe", mock.Anything, mock.Anything).
		Return(0.0, fmt.Errorf("%w: no such file", timeline.ErrMediaOpen)).Maybe()

	loop := eventloop.New(nil)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go loop.Run(loopCtx)

	// A frozen clock keeps the playhead where the test put it.
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := study.NewService(study.Deps{
		Loop:     loop,
		Player:   media.NewVirtualPlayer(probe, time.Second, func() time.Time { return frozen }),
		Probe:    probe,
		Projects: project.NewService(sqlite.NewProjectRepository(db), nil),
		Activity: activity.NewService(sqlite.NewActivityRepository(db), nil),
	}, study.Options{PlaybackInterval: time.Hour, RenderInterval: time.Hour}, nil)
	require.NoError(t, svc.Start(loopCtx))

	mcpServer := mcp.NewServer(mcp.Config{
		Study:         svc,
		AuthToken:     token,
		TransportMode: "http",
		Version:       "test",
	})
	server := httptest.NewServer(mcp.NewHTTPHandler(mcpServer, time.Minute))

	t.Cleanup(func() {
		server.Close()
		_ = svc.Close(context.Background())
		stopLoop()
		<-loop.Done()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Study: svc, Token: token}
}

// Connect opens an MCP client session sending the given bearer token.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session, err := client.Connect(ctx, transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return http.DefaultTransport.RoundTrip(req)
}
