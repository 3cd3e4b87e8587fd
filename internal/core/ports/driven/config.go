package driven

// ConfigStore reads and writes user configuration as flat dot-notation
// keys ("github.timeout_seconds").
type ConfigStore interface {
	// Get returns the raw value of key.
	Get(key string) (any, bool)

	// GetString returns key as a string, or "" when absent or mistyped.
	GetString(key string) string

	// GetInt returns key as an int, or 0 when absent or mistyped.
	GetInt(key string) int

	// GetFloat returns key as a float64, or 0 when absent or mistyped.
	GetFloat(key string) float64

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Keys returns every configured key, sorted.
	Keys() []string
}
