// Package main provides the entry point for the footprintscan CLI.
//
// footprintscan measures the public exposure of an identity (email
// address, username, domain) by probing public services and aggregating
// the hits into a deterministic risk score.
//
// Usage:
//
//	footprintscan scan --email alice@example.com
//	footprintscan serve --addr :8080
//
// See --help for all available options.
package main

// main is the entry point for footprintscan.
func main() {
	Execute()
}
