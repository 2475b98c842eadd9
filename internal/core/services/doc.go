// Package services implements the driving port interfaces.
// Services contain the pipeline logic (extract, chunk, classify, embed,
// index, answer) and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
