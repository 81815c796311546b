// Package api exposes the scan lifecycle over HTTP: submission,
// polling and liveness. The surface is intentionally small and
// poll-based; clients submit a scan, receive its id, and poll until the
// record turns terminal.
package api
