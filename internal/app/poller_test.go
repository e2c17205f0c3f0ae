package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zhaohua/mpconsole/internal/jsontable"
	"github.com/zhaohua/mpconsole/internal/sizes"
	"github.com/zhaohua/mpconsole/internal/state"
)

type fakeAPI struct {
	watches    []sizes.WatchDirectoryConfiguration
	largest    []*jsontable.Object
	watchErr   error
	largestErr error
	query      sizes.LargestQuery
	listCalls  atomic.Int32
}

func (f *fakeAPI) ListWatches(context.Context) ([]sizes.WatchDirectoryConfiguration, error) {
	f.listCalls.Add(1)
	return f.watches, f.watchErr
}

func (f *fakeAPI) AddWatch(_ context.Context, w sizes.WatchDirectoryConfiguration) ([]sizes.WatchDirectoryConfiguration, error) {
	f.watches = append(f.watches, w)
	return f.watches, nil
}

func (f *fakeAPI) RemoveWatch(context.Context, sizes.WatchDirectoryConfiguration) ([]sizes.WatchDirectoryConfiguration, error) {
	return nil, nil
}

func (f *fakeAPI) QueueScan(context.Context, string) (string, error) { return "queued", nil }

func (f *fakeAPI) FetchLargest(_ context.Context, q sizes.LargestQuery) ([]*jsontable.Object, error) {
	f.query = q
	return f.largest, f.largestErr
}

func (f *fakeAPI) FetchStat(context.Context, string) (sizes.DirScanOverview, error) {
	return sizes.DirScanOverview{}, nil
}

func (f *fakeAPI) FetchObjects(context.Context, string) ([]*jsontable.Object, error) { return nil, nil }

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_SlowBaseNeverShrinks(t *testing.T) {
	base := time.Minute
	if got := calculateBackoff(3, base); got != base {
		t.Fatalf("calculateBackoff(3, %v) = %v, want %v", base, got, base)
	}
}

func TestRefresh_Success(t *testing.T) {
	store := &state.Store{}
	api := &fakeAPI{
		watches: []sizes.WatchDirectoryConfiguration{{Path: "/srv"}},
		largest: []*jsontable.Object{jsontable.NewObject()},
	}

	refresh(context.Background(), store, api, zap.NewNop())

	snap := store.Snapshot()
	if len(snap.Watches) != 1 || len(snap.Largest) != 1 || snap.LastError != nil {
		t.Fatalf("snapshot = %#v, want 1 watch, 1 largest, no error", snap)
	}
	if api.query.Limit != largestLimit {
		t.Fatalf("largest limit = %d, want %d", api.query.Limit, largestLimit)
	}
}

func TestRefresh_FailuresAreRecordedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)
	store := &state.Store{}

	api := &fakeAPI{watchErr: errors.New("connection refused")}
	refresh(context.Background(), store, api, logger)

	api.watchErr = nil
	api.largestErr = errors.New("status 500")
	refresh(context.Background(), store, api, logger)

	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("failures = %d, want 2 (offline)", snap.ConsecutiveFailures)
	}
	if logs.Len() != 2 {
		t.Fatalf("logged %d warnings, want 2", logs.Len())
	}
	first := logs.All()[0]
	if first.Message != "watch poll failed" || first.ContextMap()["failures"] != int64(1) {
		t.Fatalf("first log = %q %v", first.Message, first.ContextMap())
	}
	if logs.All()[1].Message != "largest poll failed" {
		t.Fatalf("second log = %q, want largest poll failed", logs.All()[1].Message)
	}
}

func TestStartPoller_PublishesToSubscribers(t *testing.T) {
	store := &state.Store{}
	got := make(chan state.Snapshot, 4)
	store.Subscribe(func(s state.Snapshot) {
		select {
		case got <- s:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{watches: []sizes.WatchDirectoryConfiguration{{Path: "/srv"}}}
	StartPoller(ctx, store, api, time.Hour, nil)

	select {
	case snap := <-got:
		if len(snap.Watches) != 1 || snap.Watches[0].Path != "/srv" {
			t.Fatalf("published watches = %#v, want /srv", snap.Watches)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not publish a snapshot")
	}
}

func TestPoller_TriggerPollsImmediately(t *testing.T) {
	store := &state.Store{}
	polled := make(chan struct{}, 4)
	store.Subscribe(func(state.Snapshot) {
		select {
		case polled <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{}
	poller := StartPoller(ctx, store, api, time.Hour, nil)

	wait := func(what string) {
		t.Helper()
		select {
		case <-polled:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s: no poll within 2s", what)
		}
	}
	wait("initial poll")

	poller.Trigger()
	wait("triggered poll")
	if got := api.listCalls.Load(); got != 2 {
		t.Fatalf("ListWatches calls = %d, want 2", got)
	}
}

func TestPoller_TriggerDoesNotBlock(t *testing.T) {
	p := &Poller{trigger: make(chan struct{}, 1)}
	p.Trigger()
	p.Trigger()
	if len(p.trigger) != 1 {
		t.Fatalf("pending triggers = %d, want 1", len(p.trigger))
	}
}
