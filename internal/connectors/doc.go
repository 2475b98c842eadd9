// Package connectors holds sources that feed files into the ingest pipeline.
// The filesystem connector scans and watches local directories.
package connectors
