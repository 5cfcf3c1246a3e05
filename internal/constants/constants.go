// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".machfind"

	// EnvConfigDir overrides the directory holding ConfigFile.
	EnvConfigDir = "MACHFIND_CONFIG"
)
