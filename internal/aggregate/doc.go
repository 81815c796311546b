// Package aggregate transforms raw probe signals into an ordered finding
// list and a bounded risk score.
//
// The Aggregator is a deterministic pure function over its input: it does
// no I/O and holds no mutable state between calls, which makes the scoring
// policy trivially testable.
//
// Design decision: Per-category point values live in a Policy table rather
// than constants in code because the scoring formula is an operator-tunable
// policy, not a fixed truth. Defaults follow the values the production
// scorer converged on; a YAML config file can override any of them.
package aggregate
