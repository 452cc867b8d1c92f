package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/zx06/airtable-mcp/internal/app"
	"github.com/zx06/airtable-mcp/internal/config"
	"github.com/zx06/airtable-mcp/internal/errors"
	mcp_pkg "github.com/zx06/airtable-mcp/internal/mcp"
	"github.com/zx06/airtable-mcp/internal/secret"
)

const (
	envMCPTransport     = "AIRTABLE_MCP_TRANSPORT"
	envMCPHTTPAddr      = "AIRTABLE_MCP_HTTP_ADDR"
	envMCPHTTPAuthToken = "AIRTABLE_MCP_HTTP_AUTH_TOKEN"

	defaultHTTPAddr = "127.0.0.1:8787"
	shutdownTimeout = 5 * time.Second
)

// NewMCPCommand creates the MCP command group
func NewMCPCommand(a *app.App) *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP (Model Context Protocol) server commands",
	}

	mcpCmd.AddCommand(newMCPServerCommand(a))

	return mcpCmd
}

// newMCPServerCommand creates the MCP server command
func newMCPServerCommand(a *app.App) *cobra.Command {
	opts := &mcpServerOptions{}
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the Airtable MCP server for AI assistant integration",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.transportSet = cmd.Flags().Changed("transport")
			opts.httpAddrSet = cmd.Flags().Changed("http-addr")
			opts.httpAuthTokenSet = cmd.Flags().Changed("http-auth-token")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMCPServer(ctx, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.transport, "transport", mcp_pkg.TransportStdio, "MCP transport: stdio|streamable_http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", defaultHTTPAddr, "Streamable HTTP listen address")
	cmd.Flags().StringVar(&opts.httpAuthToken, "http-auth-token", "", "Streamable HTTP auth token (required for streamable_http)")
	cmd.Flags().BoolVar(&opts.allowPlaintextToken, "allow-plaintext-token", false, "Allow a plaintext mcp.http.auth_token in config")
	cmd.Flags().BoolVar(&opts.skipHostKeyCheck, "ssh-skip-known-hosts-check", false, "Skip SSH known_hosts check for ssh_proxy (dangerous)")
	return cmd
}

// runMCPServer runs the MCP server
func runMCPServer(ctx context.Context, a *app.App, opts *mcpServerOptions) error {
	resolved, xe := resolveMCPServerOptions(opts, GlobalConfig.Resolved.File, nil)
	if xe != nil {
		return xe
	}

	conn, xe := openConnection(ctx, a, opts.skipHostKeyCheck)
	if xe != nil {
		return xe
	}
	defer conn.Close()

	server, err := mcp_pkg.CreateServer(a.Version, conn.Options)
	if err != nil {
		return errors.AsOrWrap(err)
	}

	logger := GlobalConfig.Logger
	if conn.Options.APIKey == "" {
		logger.Warn("AIRTABLE_API_KEY is not set; tool calls will fail until it is configured")
	}

	switch resolved.transport {
	case mcp_pkg.TransportStdio:
		logger.Info("mcp server starting", "transport", resolved.transport, "version", a.Version)
		return server.Run(ctx, &mcp.StdioTransport{})
	case mcp_pkg.TransportStreamableHTTP:
		handler, err := mcp_pkg.NewStreamableHTTPHandler(server, mcp_pkg.HTTPOptions{
			AuthToken: resolved.httpAuthToken,
			Logger:    logger,
		})
		if err != nil {
			return errors.AsOrWrap(err)
		}
		httpServer := &http.Server{
			Addr:              resolved.httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		logger.Info("mcp server starting", "transport", resolved.transport, "addr", resolved.httpAddr, "version", a.Version)
		return serveHTTP(ctx, httpServer)
	default:
		return errors.New(errors.CodeCfgInvalid, "unsupported mcp transport", map[string]any{"transport": resolved.transport})
	}
}

// serveHTTP 在 ctx 取消时优雅关闭。
func serveHTTP(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.CodeInternal, "mcp http server failed", map[string]any{"addr": srv.Addr}, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.CodeInternal, "mcp http server shutdown failed", nil, err)
		}
		return nil
	}
}

type mcpServerOptions struct {
	transport           string
	transportSet        bool
	httpAddr            string
	httpAddrSet         bool
	httpAuthToken       string
	httpAuthTokenSet    bool
	allowPlaintextToken bool
	skipHostKeyCheck    bool
}

type mcpServerResolved struct {
	transport     string
	httpAddr      string
	httpAuthToken string
}

func resolveMCPServerOptions(opts *mcpServerOptions, cfg config.File, kr secret.KeyringAPI) (mcpServerResolved, *errors.XError) {
	if opts == nil {
		opts = &mcpServerOptions{}
	}

	transport := config.FirstNonEmpty(
		config.ValueIfSet(opts.transportSet, opts.transport),
		os.Getenv(envMCPTransport),
		cfg.MCP.Transport,
		mcp_pkg.TransportStdio,
	)
	if transport != mcp_pkg.TransportStdio && transport != mcp_pkg.TransportStreamableHTTP {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "invalid mcp transport", map[string]any{"transport": transport})
	}

	httpAddr := config.FirstNonEmpty(
		config.ValueIfSet(opts.httpAddrSet, opts.httpAddr),
		os.Getenv(envMCPHTTPAddr),
		cfg.MCP.HTTP.Addr,
		defaultHTTPAddr,
	)

	authToken := config.FirstNonEmpty(
		config.ValueIfSet(opts.httpAuthTokenSet, opts.httpAuthToken),
		os.Getenv(envMCPHTTPAuthToken),
	)
	if authToken == "" && cfg.MCP.HTTP.AuthToken != "" {
		secretValue, xe := secret.Resolve(cfg.MCP.HTTP.AuthToken, secret.Options{
			AllowPlaintext: opts.allowPlaintextToken || cfg.MCP.HTTP.AllowPlaintextToken,
			Keyring:        kr,
		})
		if xe != nil {
			return mcpServerResolved{}, xe
		}
		authToken = secretValue
	}

	if transport == mcp_pkg.TransportStreamableHTTP && authToken == "" {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "streamable http transport requires auth token", nil)
	}

	return mcpServerResolved{
		transport:     transport,
		httpAddr:      httpAddr,
		httpAuthToken: authToken,
	}, nil
}
