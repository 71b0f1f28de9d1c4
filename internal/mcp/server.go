package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/rpggio/slotboard/internal/transport"
)

const serverInstructions = `Manage music production projects. Each project owns a fixed layout of
8 tracks, 4 parts and 16 scenes whose labels can be edited. Use get_project to read
slot ids before calling update_project; labels are addressed by slot id. process_project
starts a backup that completes asynchronously (status goes processing -> processed).`

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, ownerID string) ([]project.ProjectSummary, error)
	Get(ctx context.Context, ownerID, id string) (*project.Project, error)
	Create(ctx context.Context, ownerID string, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, ownerID, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
	RequestBackup(ctx context.Context, ownerID, id string) (string, error)
}

// Config contains server configuration.
type Config struct {
	Projects      ProjectService
	Resolver      transport.OwnerResolver
	AuthEnabled   bool
	DefaultOwner  string
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "slotboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio is local only and always runs as the default owner.
	switch {
	case cfg.TransportMode == "stdio":
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultOwner))
	case cfg.AuthEnabled:
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	default:
		server.AddReceivingMiddleware(headerOwnerMiddleware(cfg.DefaultOwner))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &toolset{projects: cfg.Projects, logger: logger})

	return server
}

// NewHTTPHandler serves the MCP server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, &sdkmcp.StreamableHTTPOptions{
		SessionTimeout: 30 * time.Minute,
	})
}

// ServeStdio runs the server on stdin/stdout until ctx ends or the client disconnects.
func ServeStdio(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}
