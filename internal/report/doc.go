// Package report renders scan records for human and machine consumers.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for documentation and sharing
//
// Design decision: We separate report writing from the record types
// (which live in the model package) so new output formats never touch
// the core data structures. Writers implement the Writer interface,
// allowing them to be used interchangeably and composed for
// multi-format output.
package report
