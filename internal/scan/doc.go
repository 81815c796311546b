// Package scan drives a single scan end to end: it claims the record,
// fans the applicable probes out concurrently, folds their signals
// through the aggregator, and persists the terminal result.
//
// Probe failures are soft. A probe that errors contributes zero signals
// and the scan still completes; only store failures surface to the
// caller so the execution layer can retry.
package scan
