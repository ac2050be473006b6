package loaders

import (
	"os"

	"github.com/BurntSushi/toml"
)

// TOMLLoader is a loader that reads TOML configuration files.
type TOMLLoader struct{}

// NewTOMLLoader creates a new TOMLLoader.
func NewTOMLLoader() TOMLLoader {
	return TOMLLoader{}
}

// Load reads the TOML file at path and decodes it into a Record.
func (TOMLLoader) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapReadError(path, err)
	}

	var record Record
	if err = toml.Unmarshal(data, &record); err != nil {
		return nil, wrapDecodeError(path, err)
	}
	return &record, nil
}
