// Package gecko assembles and writes the GeckoLib-style animation JSON
// document consumed by the downstream sink.
package gecko

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"anim-exporter/internal/track"
)

// FormatVersion is the document format the sink understands.
const FormatVersion = "1.8.0"

// Document is the top-level export structure.
type Document struct {
	FormatVersion string     `json:"format_version"`
	Animations    Animations `json:"animations"`
}

// Animations wraps the single named animation the exporter produces.
type Animations struct {
	Animation Animation `json:"animation"`
}

// Animation holds the clip length and one channel set per object.
type Animation struct {
	Length float64              `json:"animation_length"`
	Bones  map[string]BoneEntry `json:"bones"`
}

// BoneEntry carries the channels exported for one object. Disabled
// channels are omitted.
type BoneEntry struct {
	Rotation *track.Channel `json:"rotation,omitempty"`
	Position *track.Channel `json:"position,omitempty"`
	Scale    *track.Channel `json:"scale,omitempty"`
}

// Build assembles the export document from per-object channels. The clip
// length covers the inclusive frame range regardless of step.
func Build(start, end int, bones map[string]*track.Bone) *Document {
	entries := make(map[string]BoneEntry, len(bones))
	for name, b := range bones {
		entries[name] = BoneEntry{
			Rotation: b.Rotation,
			Position: b.Position,
			Scale:    b.Scale,
		}
	}
	return &Document{
		FormatVersion: FormatVersion,
		Animations: Animations{
			Animation: Animation{
				Length: track.AnimationLength(start, end),
				Bones:  entries,
			},
		},
	}
}

// Write marshals the document and writes it to path in one step, creating
// parent directories as needed. Nothing is written on marshal failure, so
// a failed run leaves no partial file behind.
func Write(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("gecko: marshal document: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("gecko: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("gecko: write %s: %w", path, err)
	}
	return nil
}
