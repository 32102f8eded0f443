package config

// Global flag values shared by every command
var (
	// ConfigPath is the path to the configuration file
	ConfigPath = DefaultConfigPath

	// APIOverride replaces api.base_url when set
	APIOverride string

	// Plain disables styled output
	Plain bool
)
