package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultBackendURL = "http://localhost:8000"

type Profile struct {
	BackendURL string `json:"backend_url"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	currentProfile *Profile
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load existing config or create default
	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate and set current profile
	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// GetBackendURL resolves the backend base URL. CONVO_BACKEND_URL wins
// over the active profile, which wins over the built-in default.
func (c *Config) GetBackendURL() string {
	if url := os.Getenv("CONVO_BACKEND_URL"); url != "" {
		return strings.TrimSuffix(url, "/")
	}
	if c.currentProfile != nil && c.currentProfile.BackendURL != "" {
		return strings.TrimSuffix(c.currentProfile.BackendURL, "/")
	}
	return defaultBackendURL
}

// DataDir returns the directory holding config and logs.
func DataDir() (string, error) {
	// Use CONVO_HOME if set, otherwise use user's home directory
	if convoHome := os.Getenv("CONVO_HOME"); convoHome != "" {
		return filepath.Join(convoHome, ".convo"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".convo"), nil
}

func getConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": {
				BackendURL: defaultBackendURL,
			},
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if c.Profiles == nil {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, fall back to any available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
