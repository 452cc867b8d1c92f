package app

import (
	"context"
	"log/slog"

	"github.com/zx06/airtable-mcp/internal/airtable"
	"github.com/zx06/airtable-mcp/internal/config"
	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/secret"
	"github.com/zx06/airtable-mcp/internal/ssh"
)

// Connection 持有构造 Airtable client 所需的参数以及（可选的）SSH 隧道。
type Connection struct {
	Options   airtable.Options
	SSHClient *ssh.Client
}

func (c *Connection) Close() error {
	if c == nil || c.SSHClient == nil {
		return nil
	}
	return c.SSHClient.Close()
}

type ConnectionOptions struct {
	Resolved         config.Resolved
	Keyring          secret.KeyringAPI
	Logger           *slog.Logger
	UserAgent        string
	SkipHostKeyCheck bool
}

// ResolveConnection 建立 SSH 隧道（若配置了 ssh_proxy），并返回 airtable.Options。
// API key 缺失不在此处报错：首次工具调用时才会失败。
func ResolveConnection(ctx context.Context, opts ConnectionOptions) (*Connection, *errors.XError) {
	r := opts.Resolved
	sc, xe := ResolveSSH(ctx, r.File.SSHProxy, r.File.AllowPlaintext, opts.SkipHostKeyCheck, opts.Keyring)
	if xe != nil {
		return nil, xe
	}

	conn := &Connection{
		Options: airtable.Options{
			APIKey:    r.APIKey,
			BaseURL:   r.BaseURL,
			Timeout:   r.Timeout,
			UserAgent: opts.UserAgent,
			Logger:    opts.Logger,
		},
		SSHClient: sc,
	}
	if sc != nil {
		conn.Options.DialContext = sc.DialContext
		if opts.Logger != nil {
			opts.Logger.Info("airtable egress via ssh tunnel", "host", r.File.SSHProxy.Host)
		}
	}
	return conn, nil
}

// ResolveSSH 在 proxy 为 nil 时返回 (nil, nil)。
func ResolveSSH(ctx context.Context, proxy *config.SSHProxy, allowPlaintext, skipHostKeyCheck bool, kr secret.KeyringAPI) (*ssh.Client, *errors.XError) {
	if proxy == nil {
		return nil, nil
	}

	passphrase := proxy.Passphrase
	if passphrase != "" {
		pp, xe := secret.Resolve(passphrase, secret.Options{AllowPlaintext: allowPlaintext, Keyring: kr})
		if xe != nil {
			return nil, xe
		}
		passphrase = pp
	}

	return ssh.Connect(ctx, ssh.Options{
		Host:                proxy.Host,
		Port:                proxy.Port,
		User:                proxy.User,
		IdentityFile:        proxy.IdentityFile,
		Passphrase:          passphrase,
		KnownHostsFile:      proxy.KnownHostsFile,
		SkipKnownHostsCheck: skipHostKeyCheck || proxy.SkipHostKey,
	})
}
