// Package placementerrors contains generic errors returned while loading configuration and
// building the decision engine. Callers should use errors.As to look for them through chains
// wrapped with github.com/pkg/errors.
//
// Where several independent problems are found at once, functions return a
// github.com/hashicorp/go-multierror error that encapsulates the individual errors.
package placementerrors

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrInvalidArgument is a generic error to be returned on invalid argument.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "scaling.maxMemory"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message to include with the error message, e.g., explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %q is invalid for field %q", err.Value, err.Name)
	} else {
		return fmt.Sprintf("value %q is invalid for field %q; %s", err.Value, err.Name, err.Message)
	}
}

// ErrConfiguration is returned when pre-flight validation of the configuration failed.
// Problems holds every error found, so that one invalid field does not hide the others.
type ErrConfiguration struct {
	Problems []string
}

func (err *ErrConfiguration) Error() string {
	if len(err.Problems) == 1 {
		return fmt.Sprintf("configuration is invalid: %s", err.Problems[0])
	}
	return fmt.Sprintf("configuration is invalid: %d problems found", len(err.Problems))
}

// Combine folds problems into a single error, or returns nil if there are none.
func Combine(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	var result *multierror.Error
	for _, p := range problems {
		result = multierror.Append(result, errors.New(p))
	}
	return errors.WithStack(&wrapped{multi: result, config: &ErrConfiguration{Problems: problems}})
}

// wrapped renders like the multierror (one bullet per problem) while still matching
// *ErrConfiguration under errors.As.
type wrapped struct {
	multi  *multierror.Error
	config *ErrConfiguration
}

func (w *wrapped) Error() string {
	return w.multi.Error()
}

func (w *wrapped) As(target interface{}) bool {
	if t, ok := target.(**ErrConfiguration); ok {
		*t = w.config
		return true
	}
	return false
}

func (w *wrapped) Unwrap() error {
	return w.multi
}

// IsConfigurationError reports whether err was produced by failed configuration validation.
func IsConfigurationError(err error) bool {
	var e *ErrConfiguration
	return errors.As(err, &e)
}
