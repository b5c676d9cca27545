package motionfile

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.json
var embeddedMotions embed.FS

// Format is the encoding of a motion file.
type Format int

const (
	// JSON motion files are validated against the embedded schema before decoding.
	JSON Format = iota

	// YAML motion files are converted to JSON for validation.
	YAML
)

// String returns the format name.
func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return JSON, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadEmbedded loads one of the motions bundled with the binary.
func LoadEmbedded[T any](name string) (*MotionFile[T], error) {
	data, err := embeddedMotions.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	mf, err := FromBytes[T](data, JSON)
	if err != nil {
		return nil, fmt.Errorf("embedded motion %q: %w", name, err)
	}
	mf.Name = name
	return mf, nil
}

// ListEmbedded returns the names of the bundled motions, sorted.
func ListEmbedded() ([]string, error) {
	entries, err := embeddedMotions.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded motions: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// FromPath loads a motion file from disk. The format follows the extension.
func FromPath[T any](path string) (*MotionFile[T], error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("motion path is required")
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read motion %s: %w", path, err)
	}

	mf, err := FromBytes[T](data, format)
	if err != nil {
		return nil, fmt.Errorf("parse motion %s: %w", path, err)
	}
	mf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return mf, nil
}

// LoadFromDirectory loads every json/yaml motion file in dir, sorted by name.
// A missing directory yields no motions.
func LoadFromDirectory[T any](dir string) ([]*MotionFile[T], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read motions dir %s: %w", dir, err)
	}

	var motions []*MotionFile[T]
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := FormatFromPath(path); err != nil {
			continue
		}
		mf, err := FromPath[T](path)
		if err != nil {
			return nil, err
		}
		motions = append(motions, mf)
	}

	sort.Slice(motions, func(i, j int) bool {
		return motions[i].Name < motions[j].Name
	})
	return motions, nil
}

// FromBytes validates and decodes a motion file.
func FromBytes[T any](data []byte, format Format) (*MotionFile[T], error) {
	jsonData := data
	if format == YAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse motion YAML: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert motion YAML: %w", err)
		}
		jsonData = converted
	}

	if err := Validate(jsonData); err != nil {
		return nil, err
	}

	var mf MotionFile[T]
	if format == YAML {
		if err := yaml.Unmarshal(data, &mf); err != nil {
			return nil, fmt.Errorf("failed to decode motion YAML: %w", err)
		}
	} else if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to decode motion JSON: %w", err)
	}

	if len(mf.Motion) == 0 {
		return nil, ErrEmptyMotion
	}
	return &mf, nil
}
