package main

// Exit codes
const (
	ExitSuccess     = 0 // Success (including user cancellation)
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid paths)
	ExitDataError   = 3 // Data error (malformed input, no parseable records)
	ExitLocked      = 4 // Another merge is in flight for the same file
)
