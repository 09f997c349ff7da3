// Package exitcodes defines the standard exit codes used by
// llm-vertex-acceptor.
package exitcodes

// Exit code constants:
//
// * Success (0): every executed case passed; skips are allowed
// * Failure (1): usage error, fatal setup failure, or at least one
//   failed case
// * RuntimeErr (2): internal faults such as panics
const (
	Success    = 0
	Failure    = 1
	RuntimeErr = 2
)
