// Package report provides output formatting for training run results.
//
// This package implements writers for multiple output formats:
//   - Human-readable text for terminal display
//   - JSON for tool integration
//   - Markdown for documentation and sharing
//
// All writers implement the Writer interface, and MultiWriter fans a run
// out to several destinations (typically terminal plus a report file).
package report
