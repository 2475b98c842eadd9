package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables read on top of the config file.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGCSBucket    = "GCS_BUCKET_NAME"
	EnvGCSToken     = "GCS_ACCESS_TOKEN"
	EnvGCSCreds     = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvDatabaseURL  = "DATABASE_URL"
	EnvQdrantURL    = "QDRANT_URL"
	EnvQdrantKey    = "QDRANT_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// LoadEnv loads .env from the working directory and then from configDir.
// Variables already set in the process environment win, and the working
// directory file wins over the config directory one. Missing files are
// not an error.
func LoadEnv(configDir string) error {
	candidates := []string{".env"}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, ".env"))
	}
	for _, path := range candidates {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Env looks up environment variables. Tests substitute a map.
type Env func(key string) string

// OSEnv reads the process environment.
func OSEnv() Env {
	return os.Getenv
}

// MapEnv reads from a fixed map.
func MapEnv(m map[string]string) Env {
	return func(key string) string { return m[key] }
}
