// Package store provides the SQLite-backed scan state store.
//
// The store is the authoritative record of a scan's lifecycle
// (Pending -> Running -> Completed/Failed). Records are created by the API
// layer at submission time and transitioned exclusively by the scan
// coordinator; nothing in this subsystem ever deletes a record.
//
// Writes are atomic per scan id: findings and score land in a single
// UPDATE, so a reader never observes a half-written pair. The Running
// transition is fenced (refused while another invocation is in flight),
// which is what lets the task execution layer offer at-least-once delivery
// without a deduplication layer.
package store
