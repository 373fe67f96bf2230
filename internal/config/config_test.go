package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultProjectPath, cfg.ProjectPath)
	assert.Equal(t, DefaultExecutable, cfg.Executable)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultDirectories, cfg.Directories)

	// The defaults must not be shared with the config.
	cfg.Directories[0] = "changed"
	assert.Equal(t, "type_methods", DefaultDirectories[0])
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultConfigFile), `
executable: bin/crux
directories: [features, modules]
workers: 3
timeout: 5s
`)
	writeFile(t, filepath.Join(dir, DefaultEnvFile), "CRUXTEST_WORKERS=6\nCRUXTEST_RESULTS_DSN=user:pw@tcp(db:3306)/results\n")

	t.Run("file and env", func(t *testing.T) {
		cfg, err := Load(Flags{ProjectPath: dir})
		require.NoError(t, err)

		assert.Equal(t, "bin/crux", cfg.Executable)
		assert.Equal(t, []string{"features", "modules"}, cfg.Directories)
		assert.Equal(t, 6, cfg.Workers, ".env overrides the YAML file")
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, "user:pw@tcp(db:3306)/results", cfg.ResultsDSN)
	})

	t.Run("process env beats .env", func(t *testing.T) {
		t.Setenv(EnvWorkers, "2")
		cfg, err := Load(Flags{ProjectPath: dir})
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Workers)
	})

	t.Run("flags beat everything", func(t *testing.T) {
		cfg, err := Load(Flags{
			ProjectPath: dir,
			Executable:  "/opt/crux",
			Directories: []string{"builtins"},
			Workers:     8,
			Timeout:     time.Minute,
		})
		require.NoError(t, err)

		assert.Equal(t, "/opt/crux", cfg.Executable)
		assert.Equal(t, []string{"builtins"}, cfg.Directories)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, time.Minute, cfg.Timeout)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     string
		flags   Flags
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "directories: [unterminated",
			wantErr: "parse config file",
		},
		{
			name:    "bad timeout",
			yaml:    "timeout: soon",
			wantErr: "parse timeout",
		},
		{
			name:    "bad worker env",
			env:     "CRUXTEST_WORKERS=many",
			wantErr: "invalid CRUXTEST_WORKERS",
		},
		{
			name:    "negative workers",
			yaml:    "workers: -1",
			wantErr: "workers must not be negative",
		},
		{
			name:    "negative workers flag",
			flags:   Flags{Workers: -1, WorkersSet: true},
			wantErr: "workers must not be negative",
		},
		{
			name:    "negative timeout flag",
			flags:   Flags{Timeout: -time.Second, TimeoutSet: true},
			wantErr: "timeout must not be negative",
		},
		{
			name:    "negative workers flag over valid yaml",
			yaml:    "workers: 4",
			flags:   Flags{Workers: -1, WorkersSet: true},
			wantErr: "workers must not be negative",
		},
		{
			name:    "missing explicit config file",
			flags:   Flags{ConfigFile: "does-not-exist.yaml"},
			wantErr: "read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yaml != "" {
				writeFile(t, filepath.Join(dir, DefaultConfigFile), tt.yaml)
			}
			if tt.env != "" {
				writeFile(t, filepath.Join(dir, DefaultEnvFile), tt.env)
			}
			flags := tt.flags
			flags.ProjectPath = dir
			if flags.ConfigFile != "" {
				flags.ConfigFile = filepath.Join(dir, flags.ConfigFile)
			}

			_, err := Load(flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty executable", mutate: func(c *Config) { c.Executable = " " }, wantErr: true},
		{name: "no directories", mutate: func(c *Config) { c.Directories = nil }, wantErr: true},
		{name: "blank directory", mutate: func(c *Config) { c.Directories = []string{"features", ""} }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ExecutablePath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "bare name left for PATH lookup",
			config:   &Config{ProjectPath: "/project", Executable: "crux"},
			expected: "crux",
		},
		{
			name:     "absolute path unchanged",
			config:   &Config{ProjectPath: "/project", Executable: "/usr/bin/crux"},
			expected: "/usr/bin/crux",
		},
		{
			name:     "relative path resolved against project",
			config:   &Config{ProjectPath: "/project/tests", Executable: "../build/crux.exe"},
			expected: "/project/build/crux.exe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.ExecutablePath())
		})
	}
}

func TestConfig_GetOutputPath(t *testing.T) {
	cfg := &Config{ProjectPath: "/project", OutputJSONDir: ".cruxtest", OutputJSONFile: "results.json"}
	assert.Equal(t, "/project/.cruxtest/results.json", cfg.GetOutputPath())
}

func TestConfig_WorkerCount(t *testing.T) {
	assert.Equal(t, 1, (&Config{Workers: 0}).WorkerCount())
	assert.Equal(t, 4, (&Config{Workers: 4}).WorkerCount())
}
