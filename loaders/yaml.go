package loaders

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLLoader is a loader that reads YAML configuration files.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAMLLoader.
func NewYAMLLoader() YAMLLoader {
	return YAMLLoader{}
}

// Load reads the YAML file at path and decodes it into a Record.
func (YAMLLoader) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapReadError(path, err)
	}

	var record Record
	if err = yaml.Unmarshal(data, &record); err != nil {
		return nil, wrapDecodeError(path, err)
	}
	return &record, nil
}
