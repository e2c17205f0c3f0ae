package sizes

import (
	"fmt"
	"strings"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

// Object keys of a watch directory, as sent on the wire.
const (
	KeyRefreshInterval = "refresh_interval"
	KeyLabel           = "label"
	KeyPath            = "path"
)

// WatchDirectoryConfiguration mirrors one entry of /api/watches. The backend
// stores refresh_interval as free text.
type WatchDirectoryConfiguration struct {
	RefreshInterval string `json:"refresh_interval"`
	Label           string `json:"label"`
	Path            string `json:"path"`
}

// Validate rejects watches the backend cannot key on.
func (w WatchDirectoryConfiguration) Validate() error {
	if strings.TrimSpace(w.Path) == "" {
		return fmt.Errorf("watch path required")
	}
	return nil
}

// ToObject converts w into a table item.
func (w WatchDirectoryConfiguration) ToObject() *jsontable.Object {
	return jsontable.NewObject(
		jsontable.Field{Key: KeyRefreshInterval, Value: jsontable.String(w.RefreshInterval)},
		jsontable.Field{Key: KeyLabel, Value: jsontable.String(w.Label)},
		jsontable.Field{Key: KeyPath, Value: jsontable.String(w.Path)},
	)
}

// WatchFromValues builds a watch from form values keyed by object key.
func WatchFromValues(values map[string]string) WatchDirectoryConfiguration {
	return WatchDirectoryConfiguration{
		RefreshInterval: strings.TrimSpace(values[KeyRefreshInterval]),
		Label:           strings.TrimSpace(values[KeyLabel]),
		Path:            strings.TrimSpace(values[KeyPath]),
	}
}

// WatchObjects converts watches into table items, keeping order.
func WatchObjects(watches []WatchDirectoryConfiguration) []*jsontable.Object {
	items := make([]*jsontable.Object, len(watches))
	for i, w := range watches {
		items[i] = w.ToObject()
	}
	return items
}

// WatchColumns is the explicit schema of the settings page.
func WatchColumns() jsontable.TableConfig {
	return jsontable.MustTableConfig(
		jsontable.NewColumn(KeyPath).WithLabel("Path"),
		jsontable.NewColumn(KeyLabel).WithLabel("Label"),
		jsontable.NewColumn(KeyRefreshInterval).WithLabel("Refresh Interval"),
	)
}

// DirScanOverview mirrors /api/stat.
type DirScanOverview struct {
	Dirs     uint64 `json:"dirs"`
	Files    uint64 `json:"files"`
	Blocks   uint64 `json:"blocks"`
	IsCached bool   `json:"is_cached"`
}

// Bytes converts the 512-byte block count into bytes.
func (o DirScanOverview) Bytes() uint64 {
	return o.Blocks * 512
}
