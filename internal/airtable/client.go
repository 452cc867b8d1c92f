package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zx06/airtable-mcp/internal/errors"
)

const (
	DefaultBaseURL = "https://api.airtable.com/v0"
	DefaultTimeout = 10 * time.Second
)

// DialContextFunc 与 net.Dialer.DialContext 签名一致，用于 SSH 隧道出站。
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Options 构造 Client 所需参数。
type Options struct {
	APIKey  string
	BaseURL string        // 默认 DefaultBaseURL
	Timeout time.Duration // 每次调用的超时，默认 DefaultTimeout

	// DialContext 非空时替换 http.Transport 的拨号（例如经 SSH 隧道）。
	DialContext DialContextFunc
	UserAgent   string
	Logger      *slog.Logger
}

// Client 是 Airtable REST API 的薄封装；构造后只读，可被并发调用共享。
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	logger     *slog.Logger
}

// New 创建 Client。APIKey 为空时返回 CodeCfgInvalid。
func New(opts Options) (*Client, *errors.XError) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "AIRTABLE_API_KEY environment variable is required", nil)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "invalid airtable base url", map[string]any{"base_url": opts.BaseURL})
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.DialContext != nil {
		transport.DialContext = opts.DialContext
		// 经隧道时不走环境代理
		transport.Proxy = nil
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+apiKey)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	if opts.UserAgent != "" {
		headers.Set("User-Agent", opts.UserAgent)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    baseURL,
		headers:    headers,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		logger:     logger,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	target := c.baseURL + path
	if enc := query.Encode(); enc != "" {
		target += "?" + enc
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("airtable request failed", "method", method, "path", path, "duration", time.Since(start), "error", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	c.logger.Debug("airtable request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, statusError(resp.StatusCode, target, raw)
	}

	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode airtable response: %w", err)
	}
	return out, nil
}

// dataPath 拼接数据 API 路径：/{base}/{table}/...，每段单独转义。
func dataPath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// metaPath 拼接元数据 API 路径：/meta/...。
func metaPath(segments ...string) string {
	return "/meta" + dataPath(segments...)
}
