// Package probe implements the lookup units a scan is composed of.
//
// A Probe takes one identity attribute (email, username, or domain) and
// returns zero or more normalized model.Signal records. Expected absence
// (HTTP 404, API-reported "not found") is zero signals, not an error;
// errors are reserved for infrastructure failures and never cross the
// coordinator's isolation boundary.
//
// Design decision: We use an interface rather than concrete types because:
//  1. Allows for easy extension with new probes
//  2. Enables testing the coordinator with mock probes
//  3. The coordinator can treat all probes uniformly
//
// Each probe carries its own timeout budget. Multi-site probes impose the
// same per-call budget on every sub-check so one slow site cannot stall
// the whole probe category.
package probe
