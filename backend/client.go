package backend

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estateadmin/logger"
	"estateadmin/models"

	"github.com/andybalholm/brotli"
	"github.com/tidwall/gjson"
)

// API is what the dashboard needs from the remote REST backend. *Client implements
// it; tests substitute fakes.
type API interface {
	List(ctx context.Context, sess models.Session, entity string) ([]models.Row, error)
	Get(ctx context.Context, sess models.Session, entity, id string) (models.Row, error)
	Create(ctx context.Context, sess models.Session, entity string, body io.Reader, contentType string) ([]byte, error)
	Update(ctx context.Context, sess models.Session, entity, id string, body io.Reader, contentType string) ([]byte, error)
	Delete(ctx context.Context, sess models.Session, entity, id string) error
	PostJSON(ctx context.Context, sess models.Session, path string, payload any) ([]byte, error)
	Counts(ctx context.Context, sess models.Session) (models.DashboardCounts, error)
}

var _ API = (*Client)(nil)

// Client talks to the backend REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000/api"
	defaultUserAgent = "estateadmin/0.1"
	defaultTimeout   = 15 * time.Second
	maxBodyBytes     = 32 << 20
)

// NewClient builds a Client for baseURL, e.g. "https://api.example.com/api".
// A zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches a collection and returns its "records" array.
func (c *Client) List(ctx context.Context, sess models.Session, entity string) ([]models.Row, error) {
	body, err := c.do(ctx, sess, http.MethodGet, entityPath(entity), nil, "")
	if err != nil {
		return nil, err
	}
	return decodeRecords(body, entityPath(entity))
}

// Get fetches one entity. The backend wraps it in "record"; a bare object is
// accepted too.
func (c *Client) Get(ctx context.Context, sess models.Session, entity, id string) (models.Row, error) {
	path := entityPath(entity, id)
	body, err := c.do(ctx, sess, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	raw := gjson.GetBytes(body, "record")
	if !raw.IsObject() {
		raw = gjson.ParseBytes(body)
	}
	if !raw.IsObject() {
		return nil, &APIError{Kind: KindNetwork, Method: http.MethodGet, Path: path, Err: fmt.Errorf("decode response: expected object")}
	}
	var row models.Row
	if err := json.Unmarshal([]byte(raw.Raw), &row); err != nil {
		return nil, &APIError{Kind: KindNetwork, Method: http.MethodGet, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return row, nil
}

// Create POSTs a new entity. body is typically multipart form data.
func (c *Client) Create(ctx context.Context, sess models.Session, entity string, body io.Reader, contentType string) ([]byte, error) {
	return c.do(ctx, sess, http.MethodPost, entityPath(entity), body, contentType)
}

// Update sends an existing entity's new state. Multipart bodies go out as POST
// because the backend only parses files on POST; they must carry the _method
// override field. Any other body is sent as a PUT.
func (c *Client) Update(ctx context.Context, sess models.Session, entity, id string, body io.Reader, contentType string) ([]byte, error) {
	method := http.MethodPut
	if strings.HasPrefix(contentType, "multipart/form-data") {
		method = http.MethodPost
	}
	return c.do(ctx, sess, method, entityPath(entity, id), body, contentType)
}

// Delete removes one entity.
func (c *Client) Delete(ctx context.Context, sess models.Session, entity, id string) error {
	_, err := c.do(ctx, sess, http.MethodDelete, entityPath(entity, id), nil, "")
	return err
}

// PostJSON POSTs payload as JSON to a path relative to the base URL.
func (c *Client) PostJSON(ctx context.Context, sess models.Session, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return c.do(ctx, sess, http.MethodPost, strings.Trim(path, "/"), bytes.NewReader(data), "application/json")
}

// Counts fetches the dashboard totals.
func (c *Client) Counts(ctx context.Context, sess models.Session) (models.DashboardCounts, error) {
	body, err := c.do(ctx, sess, http.MethodGet, "dashboard/get-counts", nil, "")
	if err != nil {
		return models.DashboardCounts{}, err
	}
	src := gjson.GetBytes(body, "records")
	if !src.IsObject() {
		src = gjson.ParseBytes(body)
	}
	return models.DashboardCounts{
		Properties:   src.Get("properties").Int(),
		Inquiries:    src.Get("inquiries").Int(),
		Viewings:     firstInt(src, "appointments", "viewings", "appoitnment"),
		Applications: firstInt(src, "applications", "application"),
	}, nil
}

func firstInt(src gjson.Result, keys ...string) int64 {
	for _, k := range keys {
		if v := src.Get(k); v.Exists() {
			return v.Int()
		}
	}
	return 0
}

func (c *Client) do(ctx context.Context, sess models.Session, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("Backend %s %s failed: %v", method, path, err)
		return nil, &APIError{Kind: KindNetwork, Method: method, Path: path, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := readBody(resp)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Status: resp.StatusCode, Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}
	logger.Debug("Backend %s %s -> %d (%d bytes, %s)", method, path, resp.StatusCode, len(data), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			Kind:    classify(resp.StatusCode),
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: MessageFromBody(data),
		}
	}
	return data, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodyBytes))
}

func decodeRecords(body []byte, path string) ([]models.Row, error) {
	raw := gjson.GetBytes(body, "records")
	if !raw.IsArray() {
		raw = gjson.ParseBytes(body)
	}
	if !raw.IsArray() {
		return nil, &APIError{Kind: KindNetwork, Method: http.MethodGet, Path: path, Err: fmt.Errorf("decode response: expected records array")}
	}
	rows := make([]models.Row, 0, len(raw.Array()))
	if err := json.Unmarshal([]byte(raw.Raw), &rows); err != nil {
		return nil, &APIError{Kind: KindNetwork, Method: http.MethodGet, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return rows, nil
}

func entityPath(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			clean = append(clean, url.PathEscape(p))
		}
	}
	return strings.Join(clean, "/")
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse backend base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
