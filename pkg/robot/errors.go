package robot

import "errors"

// ErrCommunication is the single error kind that command and poll failures
// reduce to: the robot could not be reached or rejected the request at the
// transport level. Drivers wrap it with context using fmt.Errorf and %w so
// callers can test with errors.Is.
var ErrCommunication = errors.New("robot communication failure")

// ErrUnknownDriver is returned by Open when no driver is registered under
// the requested name.
var ErrUnknownDriver = errors.New("unknown robot driver")
