package config

import (
	"runtime"

	"github.com/mitsuhiko/machfind/internal/constants"
)

// Reader strategies for loading candidate files.
const (
	ReaderMmap = "mmap"
	ReaderRead = "read"
)

// Traversal error policies.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Log formats.
const (
	LogFormatAuto   = "auto"
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// Config is the machfind configuration (~/.machfind/config.yaml).
type Config struct {
	Log    LogConfig    `yaml:"log" json:"log"`
	Search SearchConfig `yaml:"search" json:"search"`
	Output OutputConfig `yaml:"output" json:"output"`
}

// LogConfig controls diagnostics written to stderr.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `yaml:"level" json:"level" env:"MACHFIND_LOG_LEVEL"`
	// Format is auto (pretty on a terminal), pretty or json.
	Format string `yaml:"format" json:"format" env:"MACHFIND_LOG_FORMAT"`
}

// SearchConfig controls traversal and scanning.
type SearchConfig struct {
	// Workers is the number of files scanned in parallel. Zero means one
	// per CPU.
	Workers int `yaml:"workers" json:"workers" env:"MACHFIND_WORKERS"`
	// Reader is mmap or read.
	Reader         string `yaml:"reader" json:"reader" env:"MACHFIND_READER"`
	FollowSymlinks bool   `yaml:"follow_symlinks" json:"follow_symlinks" env:"MACHFIND_FOLLOW_SYMLINKS"`
	// MaxFileSize skips larger files. Zero means unlimited.
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size" env:"MACHFIND_MAX_FILE_SIZE"`
	// OnError is abort or skip and applies to unreadable directories.
	OnError string `yaml:"on_error" json:"on_error" env:"MACHFIND_ON_ERROR"`
	// Exclude lists directory names that are never descended into.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty" env:"MACHFIND_EXCLUDE"`
}

// OutputConfig controls how matches are printed.
type OutputConfig struct {
	Format string `yaml:"format" json:"format" env:"MACHFIND_OUTPUT_FORMAT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  constants.DefaultLogLevel,
			Format: LogFormatAuto,
		},
		Search: SearchConfig{
			Workers:     runtime.NumCPU(),
			Reader:      constants.DefaultReader,
			MaxFileSize: constants.DefaultMaxFileSize,
			OnError:     constants.DefaultOnError,
		},
		Output: OutputConfig{
			Format: constants.DefaultOutputFormat,
		},
	}
}
