package mcp

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/log"
)

const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable_http"
)

// HealthPath 不需要鉴权，便于负载均衡探活；不会触达 Airtable。
const HealthPath = "/healthz"

const (
	authHeader    = "Authorization"
	bearerScheme  = "bearer"
	unauthorized  = "unauthorized"
	headerMissing = "authorization header is required"
)

// HTTPOptions 配置 streamable HTTP 入口。
type HTTPOptions struct {
	AuthToken string
	Logger    *slog.Logger
}

// NewStreamableHTTPHandler 返回挂载 MCP（需 Bearer token）与 HealthPath 的 handler。
func NewStreamableHTTPHandler(server *mcp.Server, opts HTTPOptions) (http.Handler, error) {
	if server == nil {
		return nil, errors.New(errors.CodeInternal, "mcp server is nil", nil)
	}
	if opts.AuthToken == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "mcp streamable http auth token is required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, health)
	mux.Handle("/", requireAuth(handler, opts.AuthToken, logger))
	return mux, nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "server": ServerName})
}

// requireAuth 校验 "Authorization: Bearer <token>"，scheme 不区分大小写。
func requireAuth(next http.Handler, token string, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		auth := strings.TrimSpace(req.Header.Get(authHeader))
		if auth == "" {
			logger.Warn("mcp http request rejected", "reason", "missing_authorization", "remote", req.RemoteAddr)
			http.Error(w, headerMissing, http.StatusUnauthorized)
			return
		}
		scheme, received, ok := strings.Cut(auth, " ")
		if !ok || !strings.EqualFold(scheme, bearerScheme) {
			logger.Warn("mcp http request rejected", "reason", "bad_scheme", "remote", req.RemoteAddr)
			http.Error(w, unauthorized, http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(received)), []byte(token)) != 1 {
			logger.Warn("mcp http request rejected", "reason", "bad_token", "remote", req.RemoteAddr)
			http.Error(w, unauthorized, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, req)
	})
}
