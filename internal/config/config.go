package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	Executable  string
	Directories []string

	// Execution settings
	Workers int
	Timeout time.Duration

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	ResultsDSN     string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath   string
	ConfigFile    string
	Executable    string
	Directories   []string
	Workers       int
	WorkersSet    bool
	Timeout       time.Duration
	TimeoutSet    bool
	NameFilter    string
	ResultsDSN    string
	FailFast      bool
	OnlyFailed    bool
	RerunFailures bool
	Stats         bool
	Progress      bool
	Verbose       bool
}

// fileConfig mirrors cruxtest.yaml
type fileConfig struct {
	Executable  string   `yaml:"executable"`
	Directories []string `yaml:"directories"`
	Workers     int      `yaml:"workers"`
	Timeout     string   `yaml:"timeout"`
	ResultsDSN  string   `yaml:"results_dsn"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		Executable:     DefaultExecutable,
		Workers:        DefaultWorkers,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
	}
	cfg.Directories = make([]string, len(DefaultDirectories))
	copy(cfg.Directories, DefaultDirectories)
	return cfg
}

// Load builds a config from defaults, the YAML config file, the environment
// (including the project's .env file) and finally the given flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	if err := cfg.applyFile(flags.ConfigFile); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Apply flag overrides
	if flags.Executable != "" {
		cfg.Executable = flags.Executable
	}
	if len(flags.Directories) > 0 {
		cfg.Directories = flags.Directories
	}
	// An explicitly given value applies even when zero or negative, so
	// Validate sees it.
	if flags.WorkersSet || flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.TimeoutSet || flags.Timeout > 0 {
		cfg.Timeout = flags.Timeout
	}
	if flags.ResultsDSN != "" {
		cfg.ResultsDSN = flags.ResultsDSN
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.ProjectPath, DefaultConfigFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Executable != "" {
		c.Executable = fc.Executable
	}
	if len(fc.Directories) > 0 {
		c.Directories = fc.Directories
	}
	if fc.Workers != 0 {
		c.Workers = fc.Workers
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}
	if fc.ResultsDSN != "" {
		c.ResultsDSN = fc.ResultsDSN
	}
	return nil
}

func (c *Config) applyEnv() error {
	// The .env file is optional; a missing file leaves only the process environment.
	dotenv, err := godotenv.Read(filepath.Join(c.ProjectPath, DefaultEnvFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", DefaultEnvFile, err)
	}
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenv[key])
	}

	if v := lookup(EnvExecutable); v != "" {
		c.Executable = v
	}
	if v := lookup(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v := lookup(EnvResultsDSN); v != "" {
		c.ResultsDSN = v
	}
	return nil
}

// Validate reports the first configuration problem that would prevent a run
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Executable) == "" {
		return errors.New("executable must not be empty")
	}
	if len(c.Directories) == 0 {
		return errors.New("at least one test directory is required")
	}
	for _, dir := range c.Directories {
		if strings.TrimSpace(dir) == "" {
			return errors.New("test directory names must not be empty")
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// ExecutablePath returns the executable to spawn. Bare names are left for PATH
// lookup, anything with a separator is resolved against the project path.
func (c *Config) ExecutablePath() string {
	exe := c.Executable
	if filepath.IsAbs(exe) || !strings.ContainsAny(exe, "/"+string(filepath.Separator)) {
		return exe
	}
	p := filepath.Join(c.ProjectPath, exe)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetOutputPath returns the full path to the output JSON file (under project so run and failures use the same file).
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// WorkerCount returns the effective number of workers, never less than one
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}
