package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/amertu/ocr-converter/internal/worker"
)

// Config holds the persistent defaults for a machine. Command-line
// flags override any of these per invocation.
type Config struct {
	DataDir string `json:"data_dir"`
	Lang    string `json:"lang"`
	Suffix  string `json:"suffix"`
	Jobs    int    `json:"jobs"`
	LogPath string `json:"log_path"`
}

const configFileName = "config.json"

// NewConfig creates a config with default values.
func NewConfig() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Lang:    "deu+eng",
		Suffix:  "_ocr",
		Jobs:    worker.DefaultJobs(),
		LogPath: "ocr_log.csv",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "ocrc")
	}
	return "./ocrc-data"
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appConfigDir := filepath.Join(configDir, "ocrc")
	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appConfigDir, configFileName), nil
}

// Load reads the config file, writing the defaults on first run.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	cfg := NewConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: persist the defaults so `config show` has
			// something to show.
			return cfg, saveTo(path, cfg)
		}
		return nil, err
	}
	if err := json.Unmarshal(file, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to its file.
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return saveTo(path, cfg)
}

func saveTo(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
