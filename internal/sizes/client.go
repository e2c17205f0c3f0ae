package sizes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

// API is the subset of the sizes backend the console talks to.
// It is implemented by *Client and faked in tests.
type API interface {
	ListWatches(ctx context.Context) ([]WatchDirectoryConfiguration, error)
	AddWatch(ctx context.Context, watch WatchDirectoryConfiguration) ([]WatchDirectoryConfiguration, error)
	RemoveWatch(ctx context.Context, watch WatchDirectoryConfiguration) ([]WatchDirectoryConfiguration, error)
	QueueScan(ctx context.Context, path string) (string, error)
	FetchLargest(ctx context.Context, query LargestQuery) ([]*jsontable.Object, error)
	FetchStat(ctx context.Context, path string) (DirScanOverview, error)
	FetchObjects(ctx context.Context, rel string) ([]*jsontable.Object, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the sizes HTTP API mounted under /sizes/.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	requestID func() string
}

const (
	DefaultBaseURL   = "http://127.0.0.1:8000/sizes/"
	defaultUserAgent = "mpconsole/0.1"
	requestTimeout   = 5 * time.Second
	maxResponseBytes = 8 << 20
)

// NewClient builds a Client for base. An empty base selects DefaultBaseURL.
// A missing scheme defaults to http and the path always ends in "/" so that
// endpoint paths resolve below it.
func NewClient(base string) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		requestID: uuid.NewString,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListWatches returns the configured watch directories.
func (c *Client) ListWatches(ctx context.Context) ([]WatchDirectoryConfiguration, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []WatchDirectoryConfiguration
	if err := c.doJSON(ctx, http.MethodGet, &url.URL{Path: "api/watches"}, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AddWatch adds or updates the watch with the same path and returns the
// resulting list.
func (c *Client) AddWatch(ctx context.Context, watch WatchDirectoryConfiguration) ([]WatchDirectoryConfiguration, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if err := watch.Validate(); err != nil {
		return nil, err
	}
	var payload []WatchDirectoryConfiguration
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "api/watches/add"}, watch, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// RemoveWatch deletes watch and returns the remaining list.
func (c *Client) RemoveWatch(ctx context.Context, watch WatchDirectoryConfiguration) ([]WatchDirectoryConfiguration, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []WatchDirectoryConfiguration
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "api/watches/delete"}, watch, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// QueueScan asks the backend to rescan path. The backend answers with a
// plain text confirmation, which is returned as is.
func (c *Client) QueueScan(ctx context.Context, path string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("scan path required")
	}
	values := url.Values{}
	values.Set("path", path)
	body, err := c.do(ctx, http.MethodGet, &url.URL{Path: "api/scan", RawQuery: values.Encode()}, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// LargestQuery configures /api/largest requests. Zero fields are left to the
// backend defaults.
type LargestQuery struct {
	Min    uint64
	Limit  int
	Offset int
}

// FetchLargest lists the largest scanned directories as generic objects, so
// the table engine can infer their columns.
func (c *Client) FetchLargest(ctx context.Context, query LargestQuery) ([]*jsontable.Object, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if query.Min > 0 {
		values.Set("min", strconv.FormatUint(query.Min, 10))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		values.Set("offset", strconv.Itoa(query.Offset))
	}
	return c.fetchObjects(ctx, &url.URL{Path: "api/largest", RawQuery: values.Encode()})
}

// FetchStat returns the recursive totals recorded for path.
func (c *Client) FetchStat(ctx context.Context, path string) (DirScanOverview, error) {
	if c == nil {
		return DirScanOverview{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("path", path)
	var payload DirScanOverview
	if err := c.doJSON(ctx, http.MethodGet, &url.URL{Path: "api/stat", RawQuery: values.Encode()}, nil, &payload); err != nil {
		return DirScanOverview{}, err
	}
	return payload, nil
}

// ProgressPath lists the scans the backend is currently running.
const ProgressPath = "api/progress"

// FetchObjects GETs rel (relative to the base URL, query allowed) and decodes
// the answer as table items.
func (c *Client) FetchObjects(ctx context.Context, rel string) ([]*jsontable.Object, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	u, err := url.Parse(strings.TrimPrefix(rel, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", rel, err)
	}
	if u.IsAbs() {
		return nil, fmt.Errorf("path %q must be relative to %s", rel, c.baseURL)
	}
	return c.fetchObjects(ctx, u)
}

func (c *Client) fetchObjects(ctx context.Context, rel *url.URL) ([]*jsontable.Object, error) {
	body, err := c.do(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return nil, err
	}
	items, err := jsontable.DecodeObjects(body, false)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return items, nil
}

func (c *Client) doJSON(ctx context.Context, method string, rel *url.URL, in, dest any) error {
	body, err := c.do(ctx, method, rel, in)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, in any) ([]byte, error) {
	reqURL := c.baseURL.ResolveReference(rel)

	var reqBody io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", c.requestID())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
