package sizes

import (
	"testing"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

func TestWatchDirectoryConfiguration_ToObject(t *testing.T) {
	w := WatchDirectoryConfiguration{RefreshInterval: "60", Label: "media", Path: "/srv"}
	obj := w.ToObject()

	for key, want := range map[string]string{KeyPath: "/srv", KeyLabel: "media", KeyRefreshInterval: "60"} {
		v, ok := obj.Get(key)
		if !ok {
			t.Fatalf("ToObject missing key %q", key)
		}
		if v.Kind() != jsontable.KindString || v.Content() != want {
			t.Fatalf("%s = %q (%s), want string %q", key, v.Content(), v.Kind(), want)
		}
	}
}

func TestWatchFromValues(t *testing.T) {
	got := WatchFromValues(map[string]string{KeyPath: " /srv ", KeyLabel: "media"})
	want := WatchDirectoryConfiguration{Label: "media", Path: "/srv"}
	if got != want {
		t.Fatalf("WatchFromValues = %#v, want %#v", got, want)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if err := (WatchDirectoryConfiguration{}).Validate(); err == nil {
		t.Fatalf("Validate accepted an empty path")
	}
}

func TestWatchColumnsRenderWatches(t *testing.T) {
	watches := []WatchDirectoryConfiguration{
		{RefreshInterval: "60", Label: "media", Path: "/srv"},
		{Path: "/tmp"},
	}
	out, err := jsontable.Render(jsontable.NewTableData(WatchObjects(watches), WatchColumns()))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	header := out.HeaderTexts()
	if len(header) != 3 || header[0] != "Path" || header[1] != "Label" || header[2] != "Refresh Interval" {
		t.Fatalf("header = %v, want [Path Label Refresh Interval]", header)
	}
	rows := out.RowTexts()
	if rows[0][0] != "/srv" || rows[0][2] != "60" || rows[1][1] != "" {
		t.Fatalf("rows = %v", rows)
	}
}
