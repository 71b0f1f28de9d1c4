// Package testserver assembles the full HTTP stack over an in-memory
// database for end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/slotboard/internal/auth"
	"github.com/rpggio/slotboard/internal/backup"
	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/rpggio/slotboard/internal/mcp"
	"github.com/rpggio/slotboard/internal/sqlite"
	"github.com/rpggio/slotboard/internal/transport"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Projects *project.Service
	Queue    *backup.MemoryQueue
	resolver *auth.JWTResolver
}

// Options tune the assembled stack.
type Options struct {
	// BackupDelay is the worker delay; zero completes backups immediately.
	BackupDelay time.Duration
	// NoWorker leaves queued backups pending.
	NoWorker bool
}

// NewDB opens a migrated in-memory database closed at test cleanup.
func NewDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	db := NewDB(t)
	queue := backup.NewMemoryQueue(64)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), queue, nil)
	resolver := auth.NewJWTResolver(testSecret)

	mcpServer := mcp.NewServer(mcp.Config{
		Projects:      projectSvc,
		Resolver:      resolver,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	server := httptest.NewServer(transport.NewServer(transport.Options{
		Projects: projectSvc,
		Auth:     transport.AuthMiddleware(resolver),
		MCP:      mcp.NewHTTPHandler(mcpServer),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	if opts.NoWorker {
		close(done)
	} else {
		worker := backup.NewWorker(queue, projectSvc, opts.BackupDelay, nil)
		go func() {
			defer close(done)
			_ = worker.Run(ctx)
		}()
	}

	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Projects: projectSvc,
		Queue:    queue,
		resolver: resolver,
	}
}

// Token issues a bearer token for ownerID.
func (ts *TestServer) Token(t *testing.T, ownerID string) string {
	t.Helper()
	token, err := ts.resolver.IssueToken(ownerID, time.Hour)
	require.NoError(t, err)
	return token
}

// Do sends a JSON request as ownerID and returns the status code and raw body.
func (ts *TestServer) Do(t *testing.T, method, path, ownerID string, body any) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ownerID != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token(t, ownerID))
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out.Bytes()
}
