// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigStore: TOML configuration in ~/.heartgpt/config.toml
//   - PromptStore: user-editable prompt templates in ~/.heartgpt/prompts
//
// LoadSettings and LoadConfig turn the stored keys, .env files and the
// optional YAML taxonomy into domain settings.
package file
