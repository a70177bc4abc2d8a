// Package catalogue finds photos on disk, reads their sidecar metadata and
// decodes them into planar YUV frames ready for upload.
package catalogue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the sidecar datetime format.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is a sidecar datetime in local time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("datetime: %w", err)
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("datetime: %w", err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

// Meta is the content of <photo>.json. Every field is optional.
type Meta struct {
	DateTime *Timestamp `json:"datetime,omitempty"`
	Place    []string   `json:"place,omitempty"`
	Title    []string   `json:"title,omitempty"`
	Tag      []string   `json:"tag,omitempty"`
	Weather  []string   `json:"weather,omitempty"`
	Rating   *uint8     `json:"rating,omitempty"`
}

type Photo struct {
	Path string
	Meta Meta
}

// Title returns the first sidecar title.
func (p Photo) Title() (string, bool) {
	for _, t := range p.Meta.Title {
		if t = strings.TrimSpace(t); t != "" {
			return t, true
		}
	}
	return "", false
}

// CapturedAt returns the sidecar capture time.
func (p Photo) CapturedAt() (time.Time, bool) {
	if p.Meta.DateTime == nil {
		return time.Time{}, false
	}
	return p.Meta.DateTime.Time, true
}

// SidecarPath is the metadata file next to a photo.
func SidecarPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}

// ReadMeta loads the sidecar of a photo. A missing sidecar yields empty
// metadata and no error.
func ReadMeta(path string) (Meta, error) {
	var meta Meta
	data, err := os.ReadFile(SidecarPath(path))
	if errors.Is(err, os.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("parse %s: %w", SidecarPath(path), err)
	}
	return meta, nil
}
