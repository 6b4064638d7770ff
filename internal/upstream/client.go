package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-employee-gateway/internal/employee"
	"go-employee-gateway/internal/resilience"
	"go-employee-gateway/internal/shared/contextutil"

	"go.uber.org/zap"
)

// MaxResponseBytes caps how much of an upstream body is read.
const MaxResponseBytes = 16 << 20

const (
	opList   = "list_employees"
	opGet    = "get_employee"
	opCreate = "create_employee"
	opDelete = "delete_employee"
)

// Config describes the upstream endpoint and its transport timeouts.
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Client talks to the mock employee API. Every method is one logical call
// run through the shared resilience.Executor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	exec       *resilience.Executor
	logger     *zap.Logger
}

var _ employee.Client = (*Client)(nil)

func NewClient(cfg Config, exec *resilience.Executor, logger ...*zap.Logger) *Client {
	l := zap.L().Named("upstream.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("upstream.client")
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg),
		exec:       exec,
		logger:     l,
	}
}

// newHTTPClient maps the three configured timeouts onto the transport:
// connect bounds dialing and TLS, read bounds the wait for response headers,
// and the client timeout bounds a whole attempt (connect + write + read).
func newHTTPClient(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Timeout: cfg.ConnectTimeout + cfg.WriteTimeout + cfg.ReadTimeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   cfg.ConnectTimeout,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

func (c *Client) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	var env Envelope[[]employee.Employee]
	if err := c.do(ctx, opList, http.MethodGet, "", nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []employee.Employee{}, nil
	}
	return *env.Data, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	var env Envelope[employee.Employee]
	if err := c.do(ctx, opGet, http.MethodGet, "/"+url.PathEscape(id), nil, &env); err != nil {
		return employee.Employee{}, err
	}
	if env.Data == nil {
		return employee.Employee{}, fmt.Errorf("get employee %q: %w", id, employee.ErrNoData)
	}
	return *env.Data, nil
}

func (c *Client) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("marshal create request: %w", err)
	}

	var env Envelope[employee.Employee]
	if err := c.do(ctx, opCreate, http.MethodPost, "", payload, &env); err != nil {
		return employee.Employee{}, err
	}
	if env.Data == nil {
		return employee.Employee{}, fmt.Errorf("create employee: %w", employee.ErrNoData)
	}
	return *env.Data, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, name string) (bool, error) {
	var env Envelope[bool]
	if err := c.do(ctx, opDelete, http.MethodDelete, "/"+url.PathEscape(name), nil, &env); err != nil {
		return false, err
	}
	if env.Data == nil {
		return false, nil
	}
	return *env.Data, nil
}

// do runs one logical call. The request is rebuilt on every attempt so the
// body can be replayed.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	return c.exec.Do(ctx, op, func(ctx context.Context) error {
		return c.send(ctx, method, path, body, out)
	})
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, out any) error {
	log := contextutil.GetLogger(ctx, c.logger)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		req.Header.Set(contextutil.RequestIDHeader, rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	if len(data) > MaxResponseBytes {
		return fmt.Errorf("%s %s: response exceeds %d bytes", method, path, MaxResponseBytes)
	}

	log.Debug("upstream response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// errorMessage prefers the envelope error field and falls back to the body.
func errorMessage(body []byte) string {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && *env.Error != "" {
		return *env.Error
	}
	const maxSnippet = 512
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxSnippet {
		msg = msg[:maxSnippet]
	}
	return msg
}
