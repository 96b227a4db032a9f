package vm

import "errors"

// ErrCycleLimitExceeded is returned by Run when the configured cycle
// ceiling is reached without the program halting on its own. It is
// not part of the architectural model (spec.md has no notion of a
// cycle budget) but guards the CLI and tests against runaway guests.
var ErrCycleLimitExceeded = errors.New("vm: cycle limit exceeded")
