// Package extractors provides the Extractor implementations that turn
// uploaded file bytes into text, pages or an image, and the registry that
// dispatches between them by file extension.
package extractors
