// Package log provides privacy-preserving logging built on top of the
// standard slog package.
//
// Assessment reports carry personal metadata: the name of the respondent,
// the organization, sometimes an email address. None of it is needed to
// diagnose a failed export, and log files tend to be shared when asking for
// help. The PrivacyHandler masks such attributes before they reach the
// underlying handler:
//   - keys naming a person or an organization (respondent, organization,
//     email, author, ...)
//   - string values that look like an email address, regardless of key
//
// Masking applies in verbose mode too.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("report exported",
//	    "respondent", "Jo Doe", // logged as "***REDACTED***"
//	    "pages", 3,
//	)
//	slog.SetDefault(logger)
package log
