// Package config loads CLI defaults from a .env file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultInput  = "contributions.csv"
	defaultTopN   = 10
	defaultFormat = "svg"
	defaultOutDir = "charts"
)

// Config holds the defaults that command line flags fall back to.
type Config struct {
	Input   string
	TopN    int
	Exclude string
	Format  string
	OutDir  string
}

// Load reads the .env file in the working directory, if any, then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	cfg := &Config{
		Input:   getenv("CONTRIBS_INPUT", defaultInput),
		TopN:    defaultTopN,
		Exclude: os.Getenv("CONTRIBS_EXCLUDE"),
		Format:  getenv("CONTRIBS_FORMAT", defaultFormat),
		OutDir:  getenv("CONTRIBS_OUT_DIR", defaultOutDir),
	}

	if v := os.Getenv("CONTRIBS_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("CONTRIBS_TOP_N must be a positive integer, got %q", v)
		}
		cfg.TopN = n
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
