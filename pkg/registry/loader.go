package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader handles loading policy configurations
type Loader struct {
	configPath string
}

// NewLoader creates a new configuration loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// LoadRegistry loads the policy registry from configuration file
func (l *Loader) LoadRegistry() (*Registry, error) {
	// Check if config path is provided via environment
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		l.configPath = configPath
	}

	// Use default config if none provided
	if l.configPath == "" {
		l.configPath = "policies.yaml"
	}

	// Check if file exists
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		// Return empty registry if no config file
		return &Registry{Policies: []PolicyConfig{}}, nil
	}

	// Read the configuration file
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", l.configPath, err)
	}

	// Parse YAML
	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return &registry, nil
}

// LoadRegistryFromBytes loads registry from byte data
func LoadRegistryFromBytes(data []byte) (*Registry, error) {
	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return &registry, nil
}

// SaveRegistry saves the registry to a YAML file
func (l *Loader) SaveRegistry(registry *Registry) error {
	// Use config path or default
	configPath := l.configPath
	if configPath == "" {
		configPath = "policies.yaml"
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(registry)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadModule reads a policy's wasm module and verifies its digest.
// An empty SHA256 in the config skips verification.
func LoadModule(policy PolicyConfig) ([]byte, error) {
	if policy.Path == "" {
		return nil, fmt.Errorf("policy %s has no module path", policy.ID)
	}

	data, err := os.ReadFile(policy.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy module %s: %w", policy.Path, err)
	}

	if policy.SHA256 != "" {
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != policy.SHA256 {
			return nil, fmt.Errorf("policy %s module digest mismatch", policy.ID)
		}
	}

	return data, nil
}

// GetDefaultRegistry returns a registry with the built-in policies
func GetDefaultRegistry() *Registry {
	return &Registry{
		Policies: []PolicyConfig{
			{
				ID:     "castles/native",
				Domain: "castles",
				Kind:   "native",
				Params: map[string]interface{}{
					"samples": 100000,
				},
				MaxRPS: 0, // unthrottled
				Tags:   []string{"default"},
			},
			{
				ID:        "castles/wasm-v1",
				Domain:    "castles",
				Kind:      "wasm",
				Path:      "./policies/castles-v1.wasm",
				MaxRPS:    5000,
				MemPages:  64,
				TimeoutMS: 1000,
				Tags:      []string{"experimental"},
			},
		},
	}
}
