package loaders

import (
	"path/filepath"
	"strings"
)

// ExtensionLoader dispatches to a format-specific loader based on the file
// extension. Discovery only ever matches *.json files, but imports are
// free-form relative paths and may point at YAML or TOML records.
type ExtensionLoader struct {
	json JSONLoader
	yaml YAMLLoader
	toml TOMLLoader
}

// NewExtensionLoader creates a loader that selects the decoder from the
// file extension, defaulting to JSON for unknown extensions.
func NewExtensionLoader() ExtensionLoader {
	return ExtensionLoader{}
}

// Load parses the file at path with the loader matching its extension.
func (l ExtensionLoader) Load(path string) (*Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.yaml.Load(path)
	case ".toml":
		return l.toml.Load(path)
	default:
		return l.json.Load(path)
	}
}
