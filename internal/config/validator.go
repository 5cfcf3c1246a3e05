package config

import (
	"fmt"
	"strings"

	"github.com/mitsuhiko/machfind/internal/logging"
)

// Validate checks that every value is one machfind understands.
func (c *Config) Validate() error {
	var problems []string

	if !logging.ValidLevel(c.Log.Level) {
		problems = append(problems, fmt.Sprintf("log.level %q must be one of trace, debug, info, warn, error", c.Log.Level))
	}
	if err := oneOf("log.format", c.Log.Format, LogFormatAuto, LogFormatPretty, LogFormatJSON); err != "" {
		problems = append(problems, err)
	}
	if c.Search.Workers < 0 {
		problems = append(problems, fmt.Sprintf("search.workers must not be negative, got %d", c.Search.Workers))
	}
	if err := oneOf("search.reader", c.Search.Reader, ReaderMmap, ReaderRead); err != "" {
		problems = append(problems, err)
	}
	if c.Search.MaxFileSize < 0 {
		problems = append(problems, fmt.Sprintf("search.max_file_size must not be negative, got %d", c.Search.MaxFileSize))
	}
	if err := oneOf("search.on_error", c.Search.OnError, OnErrorAbort, OnErrorSkip); err != "" {
		problems = append(problems, err)
	}
	for _, name := range c.Search.Exclude {
		if strings.ContainsRune(name, '/') {
			problems = append(problems, fmt.Sprintf("search.exclude entry %q must be a directory name, not a path", name))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func oneOf(field, value string, allowed ...string) string {
	for _, a := range allowed {
		if value == a {
			return ""
		}
	}
	return fmt.Sprintf("%s %q must be one of %s", field, value, strings.Join(allowed, ", "))
}
