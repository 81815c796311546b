// Package config provides configuration structures and utilities for
// footprintscan. It defines probe timeout budgets, worker pool sizing,
// store location, HTTP server settings, and scoring policy overrides.
//
// The Config struct is constructed once at process start from CLI flags
// and an optional YAML file, then passed by parameter into the coordinator,
// store, worker pool, and API server. Nothing reads ambient global state.
package config
