package config

const (
	// DefaultProjectPath is the directory the suite directories are resolved against
	DefaultProjectPath = "."
	// DefaultExecutable is the interpreter under test, relative to the project path
	DefaultExecutable = "../build/crux.exe"
	// DefaultConfigFile is looked up in the project path when no --config is given
	DefaultConfigFile = "cruxtest.yaml"
	// DefaultEnvFile is loaded from the project path when present
	DefaultEnvFile = ".env"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".cruxtest"
	// DefaultWorkers runs the suite sequentially
	DefaultWorkers = 1
)

// Environment variables consulted by Load. Process environment wins over the .env file.
const (
	EnvExecutable = "CRUXTEST_EXECUTABLE"
	EnvWorkers    = "CRUXTEST_WORKERS"
	EnvResultsDSN = "CRUXTEST_RESULTS_DSN"
)

// DefaultDirectories are the suite directories scanned for test scripts
var DefaultDirectories = []string{
	"type_methods",
	"builtins",
	"features",
	"modules",
}
