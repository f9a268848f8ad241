package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedEntry declares one integration instance in the YAML seed file.
//
//	integrations:
//	  - type: github
//	    name: Course GitHub
//	    credential: ghp_xxx
//	    endpoint: https://github.example.edu/api/v3
type SeedEntry struct {
	Type       string            `yaml:"type"`
	Name       string            `yaml:"name"`
	Credential string            `yaml:"credential"`
	Endpoint   string            `yaml:"endpoint,omitempty"`
	Extra      map[string]string `yaml:"extra,omitempty"`
}

type seedFile struct {
	Integrations []SeedEntry `yaml:"integrations"`
}

// LoadSeed reads the YAML integrations seed file at path.
// A missing file is not an error; it returns an empty list.
func LoadSeed(path string) ([]SeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f.Integrations, nil
}
