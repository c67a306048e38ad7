// 包 fetch 封装访问上游只读 REST API 的 HTTP 客户端（代理/超时/取消）。
// 不做自动重试：单次失败原样返回给调用方，由上层提供显式 Retry。
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultUserAgent = "launch-catalog/1.0 (+https://github.com/r-spacex/SpaceX-API)"
	// maxBodyBytes 限制单个响应体大小；/launches 全量集合约 1 MiB
	maxBodyBytes = 16 << 20
)

// Client 为绑定固定 BaseURL 的 HTTP 客户端。
type Client struct {
	http    *http.Client
	base    *url.URL
	ua      string
	metrics *Metrics
}

// Options 为客户端构造参数。
type Options struct {
	BaseURL    string
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
	UserAgent  string
	// Metrics 为空时不记录指标
	Metrics *Metrics
	// Transport 用于测试替换底层传输
	Transport http.RoundTripper
}

// New 创建客户端，支持 http/https 代理与基础超时配置。
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				if req.URL.Scheme == "https" && opts.ProxyHTTPS != "" {
					return url.Parse(opts.ProxyHTTPS)
				}
				if req.URL.Scheme == "http" && opts.ProxyHTTP != "" {
					return url.Parse(opts.ProxyHTTP)
				}
				return http.ProxyFromEnvironment(req)
			},
			DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		http:    &http.Client{Transport: transport, Timeout: opts.Timeout},
		base:    base,
		ua:      ua,
		metrics: opts.Metrics,
	}, nil
}

// URL 将资源路径拼接到 BaseURL 之后。
func (c *Client) URL(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

// Get 对绝对地址发起一次 GET 请求，非 2xx 视为失败。
// 调用方负责关闭返回的 Body。
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			c.metrics.observe(req.URL.Path, outcomeCanceled, start)
			return nil, canceled(ctx.Err())
		}
		c.metrics.observe(req.URL.Path, outcomeError, start)
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		c.metrics.observe(req.URL.Path, outcomeError, start)
		return nil, &TransportError{URL: rawURL, Status: resp.StatusCode, Err: fmt.Errorf("http status: %s", resp.Status)}
	}
	c.metrics.observe(req.URL.Path, outcomeOK, start)
	return resp, nil
}

// GetJSON 请求 BaseURL 下的资源路径并将响应体解码到 out。
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	u := c.URL(path)
	resp, err := c.Get(ctx, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return canceled(ctx.Err())
		}
		return &TransportError{URL: u, Status: resp.StatusCode, Err: fmt.Errorf("decode json: %w", err)}
	}
	return nil
}
