package quorum

import "fmt"

// IllegalTransitionError is returned synchronously when a transition's
// preconditions are violated. The manager's active state is left
// unchanged. Callers should treat this as a programming bug, not
// something to retry.
type IllegalTransitionError struct {
	Msg string
}

func (e *IllegalTransitionError) Error() string {
	return e.Msg
}

func illegalTransitionf(format string, args ...interface{}) error {
	return &IllegalTransitionError{Msg: fmt.Sprintf(format, args...)}
}

// IllegalInitStateError is returned synchronously from Initialize when the
// durable record found on disk cannot correspond to any legal starting
// role. A replica that sees this error cannot start.
type IllegalInitStateError struct {
	Msg string
}

func (e *IllegalInitStateError) Error() string {
	return e.Msg
}

func illegalInitStatef(format string, args ...interface{}) error {
	return &IllegalInitStateError{Msg: fmt.Sprintf(format, args...)}
}
