// Package worker provides the asynchronous execution layer between the
// HTTP API and the scan coordinator: a bounded in-process queue drained
// by a fixed pool of goroutines.
//
// Delivery is at least once. Transient store failures are retried with
// backoff; everything else relies on the coordinator being safe to
// re-run for the same scan id.
package worker
