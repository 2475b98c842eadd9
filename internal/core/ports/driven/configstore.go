package driven

import "time"

// ConfigStore holds flat, dot-keyed settings such as "llm.model" or
// "pipeline.top_k". Typed getters return zero values for missing keys.
type ConfigStore interface {
	Get(key string) (any, bool)

	// GetString returns "" for non-string values.
	GetString(key string) string

	// GetInt accepts any integer encoding. Other types read as 0.
	GetInt(key string) int

	// GetFloat accepts integers and floats.
	GetFloat(key string) (float64, bool)

	// GetBool reports the value and whether a boolean was stored.
	GetBool(key string) (bool, bool)

	// GetDuration parses Go duration strings such as "500ms".
	// A missing key returns zero and no error.
	GetDuration(key string) (time.Duration, error)

	// Keys lists every stored key.
	Keys() []string

	// Set stores and persists a value.
	Set(key string, value any) error

	Path() string
}
