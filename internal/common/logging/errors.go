package logging

import (
	"fmt"
)

// Origin walks the Cause chain of err and returns the deepest error that still has a cause,
// which for github.com/pkg/errors chains is the one carrying the stack recorded at creation.
func Origin(err error) error {
	type causer interface {
		Cause() error
	}

	rv := err
	for rv != nil {
		c, ok := rv.(causer)
		if !ok {
			break
		}
		next := c.Cause()
		if _, ok := next.(causer); !ok {
			break
		}
		rv = next
	}
	return rv
}

// WithStack renders err followed by the stack trace of its origin, if it has one.
func WithStack(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v\n%+v", err, Origin(err))
}
