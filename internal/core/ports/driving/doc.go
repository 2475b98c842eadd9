// Package driving defines the interfaces that adapters call INTO core.
// These are the "driving" or "primary" ports used by the CLI, HTTP, MCP and TUI adapters.
package driving
