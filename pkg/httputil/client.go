// Package httputil 轻量 HTTP 客户端，带默认请求头和有限次重试
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client HTTP 客户端包装器
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	retries    int
}

// ClientOption 客户端配置选项
type ClientOption func(*Client)

// WithTimeout 设置请求超时时间
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeaders 设置默认请求头
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithRetries 设置对 5xx 和网络错误的重试次数
func WithRetries(retries int) ClientOption {
	return func(c *Client) {
		c.retries = retries
	}
}

// NewClient 创建 HTTP 客户端
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		headers:    make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	if _, ok := client.headers["User-Agent"]; !ok {
		client.headers["User-Agent"] = "AuraWell-Agent/1.0"
	}
	return client
}

// SetHeader 设置单个请求头
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Do 执行 HTTP 请求，5xx 与网络错误按配置重试
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for k, v := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	var resp *http.Response
	var err error
	for i := 0; i <= c.retries; i++ {
		resp, err = c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			break
		}
		if i < c.retries {
			if resp != nil {
				_ = resp.Body.Close()
			}
			time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
		}
	}
	return resp, err
}

// GetJSON 发送 GET 请求并解析 JSON 响应
func (c *Client) GetJSON(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("创建GET请求失败: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("GET请求失败: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP请求返回错误状态: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("解析JSON响应失败: %w", err)
	}
	return nil
}
