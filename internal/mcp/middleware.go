package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/slotboard/internal/transport"
)

// getOwnerID extracts the requester's owner ID from context.
func getOwnerID(ctx context.Context) string {
	v, _ := transport.OwnerFromContext(ctx)
	return v
}

func isProtocolMethod(method string) bool {
	return method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/")
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver transport.OwnerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if isProtocolMethod(method) {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			token := transport.BearerToken(extra.Header.Get("Authorization"))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			ownerID, err := resolver.ResolveOwner(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if ownerID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			return next(transport.WithOwner(ctx, ownerID), method, req)
		}
	}
}

// headerOwnerMiddleware trusts X-User-Id when auth is disabled over HTTP.
func headerOwnerMiddleware(defaultOwner string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ownerID := defaultOwner
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				if v := strings.TrimSpace(extra.Header.Get(transport.UserIDHeader)); v != "" {
					ownerID = v
				}
			}
			return next(transport.WithOwner(ctx, ownerID), method, req)
		}
	}
}

// noAuthMiddleware injects a default owner.
func noAuthMiddleware(defaultOwner string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(transport.WithOwner(ctx, defaultOwner), method, req)
		}
	}
}
