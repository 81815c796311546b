// Package model defines the core data structures used throughout footprintscan.
//
// This package contains the following main types:
//   - Signal: A single probe's raw, normalized result
//   - Finding: An ordered, human-readable aggregation output
//   - ScanRequest: The immutable identity descriptor a scan starts from
//   - ScanRecord: The persisted lifecycle state of one scan
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (probe, aggregate, store, api) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for API responses and
// database storage.
package model
