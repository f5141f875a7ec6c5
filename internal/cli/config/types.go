// Package config provides configuration management for the sqlsh CLI.
//
// Values are layered from defaults, a YAML or TOML config file, SQLSH_
// environment variables and explicitly set command-line flags, in that
// order of increasing precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	Mode           string         `koanf:"mode"`
	Header         bool           `koanf:"header"`
	Echo           bool           `koanf:"echo"`
	NullValue      string         `koanf:"null_value"`
	Driver         string         `koanf:"driver"`
	Database       string         `koanf:"database"`
	Init           string         `koanf:"init"`
	HistoryFile    string         `koanf:"history_file"`
	Prompt         string         `koanf:"prompt"`
	ContinuePrompt string         `koanf:"continue_prompt"`
	Verbose        bool           `koanf:"verbose"`
	Params         map[string]any `koanf:"params"` // adapter-specific, e.g. duckdb extensions
}

// Default configuration values.
const (
	DefaultMode           = "box"
	DefaultDriver         = "sqlite"
	DefaultDatabase       = ":memory:"
	DefaultHistoryFile    = ".sqlsh_history"
	DefaultPrompt         = "sqlsh> "
	DefaultContinuePrompt = "   ...> "
)

// configNames are looked up in the working directory, in order.
var configNames = []string{"sqlsh.yaml", "sqlsh.yml", "sqlsh.toml"}

// homeConfigName is the fallback config file in the user's home directory.
const homeConfigName = ".sqlsh.yaml"
