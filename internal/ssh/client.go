package ssh

import (
	"context"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/zx06/airtable-mcp/internal/errors"
)

// Client 包装 ssh.Client，DialContext 可直接挂到 http.Transport 上。
type Client struct {
	client *ssh.Client
}

// Connect 建立 SSH 连接；ctx 控制 TCP 拨号与握手。
func Connect(ctx context.Context, opts Options) (*Client, *errors.XError) {
	if opts.Host == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "ssh host is required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Port == 0 {
		opts.Port = 22
	}
	if opts.User == "" {
		opts.User = os.Getenv("USER")
		if opts.User == "" {
			opts.User = os.Getenv("USERNAME")
		}
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}

	authMethods, xe := buildAuthMethods(opts)
	if xe != nil {
		return nil, xe
	}

	hostKeyCallback, xe := buildHostKeyCallback(opts)
	if xe != nil {
		return nil, xe
	}

	config := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         opts.DialTimeout,
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	dialer := &net.Dialer{Timeout: opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSSHDialFailed, "failed to connect to ssh server", map[string]any{"host": opts.Host}, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, errors.Wrap(errors.CodeSSHAuthFailed, "ssh authentication failed", map[string]any{"host": opts.Host}, err)
		}
		var keyErr *knownhosts.KeyError
		if stderrors.As(err, &keyErr) {
			return nil, errors.Wrap(errors.CodeSSHHostKeyMismatch, "ssh host key mismatch", map[string]any{"host": opts.Host}, err)
		}
		return nil, errors.Wrap(errors.CodeSSHDialFailed, "ssh handshake failed", map[string]any{"host": opts.Host}, err)
	}
	return &Client{client: ssh.NewClient(c, chans, reqs)}, nil
}

// DialContext 通过 SSH 通道建立到 addr 的连接。
func (c *Client) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	return c.client.DialContext(ctx, network, addr)
}

// Close 关闭 SSH 连接。
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

func buildAuthMethods(opts Options) ([]ssh.AuthMethod, *errors.XError) {
	var methods []ssh.AuthMethod

	// 私钥认证
	if opts.IdentityFile != "" {
		keyPath := expandPath(opts.IdentityFile)
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to read ssh identity file", map[string]any{"path": keyPath}, err)
		}
		var signer ssh.Signer
		if opts.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(opts.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(keyData)
		}
		if err != nil {
			return nil, errors.Wrap(errors.CodeSSHAuthFailed, "failed to parse ssh private key", nil, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	// 尝试默认私钥路径
	if len(methods) == 0 {
		for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
			keyPath := expandPath("~/.ssh/" + name)
			if keyData, err := os.ReadFile(keyPath); err == nil {
				if signer, err := ssh.ParsePrivateKey(keyData); err == nil {
					methods = append(methods, ssh.PublicKeys(signer))
					break
				}
			}
		}
	}

	if len(methods) == 0 {
		return nil, errors.New(errors.CodeSSHAuthFailed, "no ssh authentication method available", nil)
	}
	return methods, nil
}

func buildHostKeyCallback(opts Options) (ssh.HostKeyCallback, *errors.XError) {
	if opts.SkipKnownHostsCheck {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	khPath := opts.KnownHostsFile
	if khPath == "" {
		khPath = DefaultKnownHostsPath()
	}
	khPath = expandPath(khPath)
	cb, err := knownhosts.New(khPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeSSHHostKeyMismatch, "known_hosts file not found; set ssh_proxy.skip_host_key to bypass (not recommended)", map[string]any{"path": khPath})
		}
		return nil, errors.Wrap(errors.CodeSSHHostKeyMismatch, "failed to parse known_hosts", map[string]any{"path": khPath}, err)
	}
	return cb, nil
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return p
}
