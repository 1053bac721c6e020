package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/promptforge/refinery/core"
)

// catalogFile is the on-disk shape of a YAML agent catalog.
type catalogFile struct {
	Agents []core.AgentDefinition `yaml:"agents"`
}

// Parse builds a registry from YAML catalog bytes. The file lists agents
// under a top-level "agents" key; definitions go through the same
// validation as programmatic construction.
func Parse(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse agent catalog: %w", err)
	}

	if len(file.Agents) == 0 {
		return nil, fmt.Errorf("agent catalog defines no agents")
	}

	return New(file.Agents...)
}

// LoadFile reads and parses a YAML agent catalog from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent catalog: %w", err)
	}

	return Parse(data)
}
