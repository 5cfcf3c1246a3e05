package constants

// Search defaults.
const (
	// DefaultReader is the buffer acquisition strategy (mmap or read).
	DefaultReader = "mmap"

	// DefaultOnError is the traversal error policy (abort or skip).
	DefaultOnError = "abort"

	// DefaultMaxFileSize is the largest candidate file scanned. Zero means
	// unlimited.
	DefaultMaxFileSize = 0

	// DefaultOutputFormat is the format of search results.
	DefaultOutputFormat = "text"
)

// Logging defaults.
const (
	DefaultLogLevel = "warn"
)
