package sizes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/sizes?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if got := u.String(); got != "http://example.com:1234/sizes/" {
		t.Fatalf("base = %q, want http://example.com:1234/sizes/", got)
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL accepted a url without host")
	}
}

type recorded struct {
	method    string
	path      string
	query     url.Values
	body      []byte
	requestID string
	userAgent string
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, func() []recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{
			method:    r.Method,
			path:      r.URL.Path,
			query:     r.URL.Query(),
			body:      body,
			requestID: r.Header.Get("X-Request-ID"),
			userAgent: r.Header.Get("User-Agent"),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/sizes")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func TestClient_WatchEndpoints(t *testing.T) {
	t.Parallel()

	watches := []WatchDirectoryConfiguration{{RefreshInterval: "60", Label: "media", Path: "/srv"}}
	c, calls := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sizes/api/watches", "/sizes/api/watches/add", "/sizes/api/watches/delete":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(watches)
		default:
			http.NotFound(w, r)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	got, err := c.ListWatches(ctx)
	if err != nil {
		t.Fatalf("ListWatches returned error: %v", err)
	}
	if len(got) != 1 || got[0] != watches[0] {
		t.Fatalf("ListWatches = %#v, want %#v", got, watches)
	}

	if _, err := c.AddWatch(ctx, watches[0]); err != nil {
		t.Fatalf("AddWatch returned error: %v", err)
	}
	if _, err := c.RemoveWatch(ctx, watches[0]); err != nil {
		t.Fatalf("RemoveWatch returned error: %v", err)
	}

	rec := calls()
	if len(rec) != 3 {
		t.Fatalf("server saw %d calls, want 3", len(rec))
	}
	if rec[0].method != http.MethodGet {
		t.Fatalf("ListWatches method = %q, want GET", rec[0].method)
	}
	for _, call := range rec[1:] {
		if call.method != http.MethodPost {
			t.Fatalf("%s method = %q, want POST", call.path, call.method)
		}
		var sent WatchDirectoryConfiguration
		if err := json.Unmarshal(call.body, &sent); err != nil {
			t.Fatalf("%s body = %q: %v", call.path, call.body, err)
		}
		if sent != watches[0] {
			t.Fatalf("%s body = %#v, want %#v", call.path, sent, watches[0])
		}
		if !strings.Contains(string(call.body), `"refresh_interval":"60"`) {
			t.Fatalf("%s body = %s, want snake_case keys", call.path, call.body)
		}
	}

	seen := map[string]bool{}
	for _, call := range rec {
		if call.requestID == "" || seen[call.requestID] {
			t.Fatalf("X-Request-ID = %q, want a fresh id per request", call.requestID)
		}
		seen[call.requestID] = true
		if !strings.HasPrefix(call.userAgent, "mpconsole/") {
			t.Fatalf("User-Agent = %q, want mpconsole/*", call.userAgent)
		}
	}
}

func TestClient_AddWatchRequiresPath(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.AddWatch(context.Background(), WatchDirectoryConfiguration{Label: "x"}); err == nil {
		t.Fatalf("AddWatch returned nil error, want error")
	}
	if _, err := c.QueueScan(context.Background(), "  "); err == nil {
		t.Fatalf("QueueScan returned nil error, want error")
	}
}

func TestClient_QueueScanAndLargest(t *testing.T) {
	t.Parallel()

	c, calls := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sizes/api/scan":
			_, _ = w.Write([]byte("queued scan dir command for " + r.URL.Query().Get("path") + " successfully\n"))
		case "/sizes/api/largest":
			_, _ = w.Write([]byte(`[{"path":"/srv/a","blocks":2048,"sub_dirs":["/srv/a/b"]},{"path":"/srv/c","blocks":8}]`))
		case "/sizes/api/stat":
			_, _ = w.Write([]byte(`{"dirs":3,"files":10,"blocks":4,"is_cached":true}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	msg, err := c.QueueScan(ctx, "/srv/a b")
	if err != nil {
		t.Fatalf("QueueScan returned error: %v", err)
	}
	if msg != "queued scan dir command for /srv/a b successfully" {
		t.Fatalf("QueueScan = %q", msg)
	}

	items, err := c.FetchLargest(ctx, LargestQuery{Min: 1024, Limit: 20, Offset: 40})
	if err != nil {
		t.Fatalf("FetchLargest returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("FetchLargest items = %d, want 2", len(items))
	}
	if keys := items[0].Keys(); strings.Join(keys, ",") != "path,blocks,sub_dirs" {
		t.Fatalf("FetchLargest keys = %v, want wire order", keys)
	}

	stat, err := c.FetchStat(ctx, "/srv")
	if err != nil {
		t.Fatalf("FetchStat returned error: %v", err)
	}
	if stat.Dirs != 3 || !stat.IsCached || stat.Bytes() != 2048 {
		t.Fatalf("FetchStat = %#v", stat)
	}

	rec := calls()
	if got := rec[0].query.Get("path"); got != "/srv/a b" {
		t.Fatalf("scan path = %q, want /srv/a b", got)
	}
	q := rec[1].query
	if q.Get("min") != "1024" || q.Get("limit") != "20" || q.Get("offset") != "40" {
		t.Fatalf("largest query = %v, want params encoded", q)
	}
}

func TestClient_FetchLargestOmitsZeroParams(t *testing.T) {
	t.Parallel()

	c, calls := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	items, err := c.FetchLargest(context.Background(), LargestQuery{})
	if err != nil {
		t.Fatalf("FetchLargest returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("FetchLargest items = %d, want 0", len(items))
	}
	if q := calls()[0].query; len(q) != 0 {
		t.Fatalf("largest query = %v, want none", q)
	}
}

func TestClient_FetchObjects(t *testing.T) {
	t.Parallel()

	c, calls := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"/srv":{"spent":3,"ongoing":false}}`))
	})

	items, err := c.FetchObjects(context.Background(), "/api/progress")
	if err != nil {
		t.Fatalf("FetchObjects returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("FetchObjects items = %d, want 1", len(items))
	}
	if got := calls()[0].path; got != "/sizes/api/progress" {
		t.Fatalf("path = %q, want /sizes/api/progress", got)
	}

	if _, err := c.FetchObjects(context.Background(), "http://elsewhere/api"); err == nil {
		t.Fatalf("FetchObjects accepted an absolute url")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	c, _ := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sizes/api/watches":
			_, _ = w.Write([]byte("{not-json"))
		case "/sizes/api/largest":
			_, _ = w.Write([]byte(`[1,2]`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	})

	_, err := c.ListWatches(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListWatches error = %v, want decode response error", err)
	}

	_, err = c.FetchLargest(context.Background(), LargestQuery{})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchLargest error = %v, want decode response error", err)
	}

	_, err = c.QueueScan(context.Background(), "/srv")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("QueueScan error = %v, want status 500 error", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.ListWatches(context.Background()); err == nil {
		t.Fatalf("ListWatches on nil client returned nil error")
	}
}
