package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// WidgetConfig configures the terminal chat widget.
type WidgetConfig struct {
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogDir         string        `yaml:"log_dir"`
	WordWrap       int           `yaml:"word_wrap"`
	NoColor        bool          `yaml:"no_color"`
}

func defaultWidgetConfig() WidgetConfig {
	return WidgetConfig{
		APIURL:   "http://localhost:8000/api",
		LogDir:   "./logs",
		WordWrap: 80,
	}
}

// LoadWidgetConfig reads the optional YAML file at path, then applies
// WIDGET_* environment overrides. A missing file is not an error.
func LoadWidgetConfig(path string) (WidgetConfig, error) {
	_ = godotenv.Load()
	cfg := defaultWidgetConfig()

	if path != "" {
		data, err := os.ReadFile(expandHome(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading widget config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing widget config %s: %w", path, err)
			}
		}
	}

	cfg.APIURL = strings.TrimRight(getEnv("WIDGET_API_URL", cfg.APIURL), "/")
	cfg.LogDir = getEnv("WIDGET_LOG_DIR", cfg.LogDir)
	cfg.RequestTimeout = getDuration("WIDGET_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.WordWrap = getInt("WIDGET_WORD_WRAP", cfg.WordWrap)
	cfg.NoColor = getBool("NO_COLOR", cfg.NoColor)
	return cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
