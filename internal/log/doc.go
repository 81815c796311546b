// Package log provides secure logging with automatic sanitization of
// secrets and scan-subject PII, built on top of the standard slog
// package.
//
// The service handles other people's email addresses and usernames.
// Those values power the scan but have no business sitting in plain
// text in shared log storage, so the SecureHandler masks them at the
// logging boundary:
//   - email addresses keep their domain but lose the local part
//   - credential-shaped values (tokens, API keys, auth headers) are
//     fully redacted
//
// Masking happens in the handler rather than at each call site, so a
// new log line can never forget to apply it.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("scan submitted",
//	    "email", "alice@example.com", // logged as ***@example.com
//	)
package log
