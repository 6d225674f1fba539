package load

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk encoding of a Tree.
type Format string

// Supported tree encodings.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatOf returns the encoding implied by the file extension of path.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("load: unsupported tree file extension %q", ext)
	}
}

// Unmarshal decodes and validates a tree in the given format.
func Unmarshal(data []byte, f Format) (*Tree, error) {
	var (
		t   Tree
		err error
	)
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &t)
	case FormatYAML:
		err = yaml.Unmarshal(data, &t)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &t)
	default:
		return nil, fmt.Errorf("load: unsupported format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode %s tree: %w", f, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Marshal encodes a tree in the given format.
func Marshal(t *Tree, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(t, "", "  ")
	case FormatYAML:
		return yaml.Marshal(t)
	case FormatMsgpack:
		return msgpack.Marshal(t)
	default:
		return nil, fmt.Errorf("load: unsupported format %q", f)
	}
}

// LoadFile reads a tree from path, picking the decoder from its extension.
func LoadFile(path string) (*Tree, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read tree: %w", err)
	}
	return Unmarshal(data, f)
}

// SaveFile writes a tree to path, picking the encoder from its extension.
func SaveFile(path string, t *Tree) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(t, f)
	if err != nil {
		return fmt.Errorf("load: encode %s tree: %w", f, err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("load: create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
