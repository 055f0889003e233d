package pool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/gopool/pkg/worklist"
)

// FileConfig is the on-disk representation of a pool configuration.
// Durations are strings in time.ParseDuration format ("500ms", "2s").
type FileConfig struct {
	Pool PoolFileConfig `yaml:"pool" json:"pool"`
}

// PoolFileConfig holds the pool section of a config file.
type PoolFileConfig struct {
	Workers     int    `yaml:"workers" json:"workers"`
	QueueSize   int    `yaml:"queue_size" json:"queue_size"`
	Concurrency int    `yaml:"concurrency" json:"concurrency"`
	TaskTimeout string `yaml:"task_timeout" json:"task_timeout"`
}

// LoadFile reads a pool configuration from a YAML or JSON file, chosen by
// extension.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// Validate checks the file-level constraints before conversion.
func (f *FileConfig) Validate() error {
	pc := f.Pool

	if pc.Workers < 0 {
		return fmt.Errorf("pool.workers must be non-negative")
	}
	if pc.QueueSize < 0 {
		return fmt.Errorf("pool.queue_size must be non-negative")
	}
	if pc.Concurrency < 0 {
		return fmt.Errorf("pool.concurrency must be non-negative")
	}
	if pc.TaskTimeout != "" {
		if _, err := time.ParseDuration(pc.TaskTimeout); err != nil {
			return fmt.Errorf("invalid pool.task_timeout: %w", err)
		}
	}

	return nil
}

// ToConfig converts the file representation into a Config, applying
// defaults for any omitted fields.
func (f *FileConfig) ToConfig() (Config, error) {
	if err := f.Validate(); err != nil {
		return Config{}, err
	}

	pc := f.Pool
	config := Config{
		Workers:   pc.Workers,
		QueueSize: pc.QueueSize,
	}

	if pc.TaskTimeout != "" {
		d, err := time.ParseDuration(pc.TaskTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid pool.task_timeout: %w", err)
		}
		config.TaskTimeout = d
	}

	if pc.Concurrency > 0 {
		config.Attr = &worklist.Attr{Concurrency: pc.Concurrency}
	}

	return config, nil
}

// NewFromFile creates a pool from a configuration file.
func NewFromFile(path string) (Pool, error) {
	fc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := fc.ToConfig()
	if err != nil {
		return nil, err
	}

	return NewWithConfig(config)
}
