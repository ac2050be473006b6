package loaders

import (
	"encoding/json"
	"os"
)

// Loader parses one configuration file into a Record.
type Loader interface {
	Load(path string) (*Record, error)
}

// JSONLoader is a loader that reads JSON configuration files.
type JSONLoader struct{}

// NewJSONLoader creates a new JSONLoader.
func NewJSONLoader() JSONLoader {
	return JSONLoader{}
}

// Load reads the JSON file at path and decodes it into a Record.
func (JSONLoader) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapReadError(path, err)
	}

	var record Record
	if err = json.Unmarshal(data, &record); err != nil {
		return nil, wrapDecodeError(path, err)
	}
	return &record, nil
}
