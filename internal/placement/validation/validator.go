package validation

import (
	"fmt"
)

// Result collects the problems found by one check. Nothing is ever returned early: every
// check runs and contributes to the same Result.
type Result struct {
	Errors   []string
	Warnings []string
}

func (r *Result) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends the problems of other to r.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

type Validator[T any] interface {
	Validate(obj T) Result
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc[T any] func(obj T) Result

func (f ValidatorFunc[T]) Validate(obj T) Result {
	return f(obj)
}

// CompoundValidator runs every validator and merges their results. A validator that panics
// is reported as an error rather than aborting the remaining checks.
type CompoundValidator[T any] struct {
	validators []Validator[T]
}

func NewCompoundValidator[T any](validators ...Validator[T]) CompoundValidator[T] {
	return CompoundValidator[T]{
		validators: validators,
	}
}

func (c CompoundValidator[T]) Validate(obj T) Result {
	var result Result
	for _, v := range c.validators {
		result.Merge(safeValidate(v, obj))
	}
	return result
}

func safeValidate[T any](v Validator[T], obj T) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result.Errorf("internal error while validating: %v", r)
		}
	}()
	return v.Validate(obj)
}
