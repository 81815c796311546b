package probe

import "errors"

// Probe infrastructure errors.
// All of these are soft failures at scan level: the coordinator logs them
// and degrades the probe to zero signals.
var (
	// ErrNoHTTPClient is returned when a probe is constructed without an
	// HTTP client. Probes never build their own clients so the transport
	// (timeouts, proxies) stays under the caller's control.
	ErrNoHTTPClient = errors.New("no HTTP client configured")

	// ErrUnexpectedStatus is returned when a lookup endpoint answers with
	// a status code the probe cannot interpret. Expected absence codes
	// (404) are not errors.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedResponse is returned when a lookup endpoint returns a
	// body the probe cannot parse.
	ErrMalformedResponse = errors.New("malformed response body")

	// ErrEnumeratorNotFound is returned when the external enumeration
	// binary is not present on the system.
	ErrEnumeratorNotFound = errors.New("enumeration binary not found")
)
