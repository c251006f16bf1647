// Package errors provides coded, user-facing errors for the estudos CLI and
// server.
//
// Every failure a user can act on has a code that maps to a short message
// and a longer explanation:
//   - E1xx: configuration (estudos.json, environment overrides)
//   - E2xx: route table and navigation
//   - E3xx: module sources
//   - E4xx: command line
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`server.port must be between 1 and 65535, got 0`).
//	    WithSuggestion(`Set "port" in the "server" section of estudos.json`)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR E101: Invalid configuration value
//	//
//	//   server.port must be between 1 and 65535, got 0
//	//
//	//   Hint: Set "port" in the "server" section of estudos.json
//
// Errors wrap their cause, so errors.Is and errors.As see through them.
package errors
