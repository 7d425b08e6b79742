package seeder

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds importer pipeline settings.
type Config struct {
	TranscriptPath string `yaml:"transcript_path" env:"SEEDER_TRANSCRIPT_PATH"`
	ExceptionsPath string `yaml:"exceptions_path" env:"SEEDER_EXCEPTIONS_PATH"`
	OutputJSONPath string `yaml:"output_json_path" env:"SEEDER_OUTPUT_JSON_PATH"`
	BatchSize      int    `yaml:"batch_size"      env:"SEEDER_BATCH_SIZE" env-default:"500"`
	DryRun         bool   `yaml:"dry_run"         env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads importer configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("seeder config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("seeder config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read env: %w", err)
	}

	return &cfg, nil
}
