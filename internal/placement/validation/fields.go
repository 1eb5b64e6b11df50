package validation

import (
	"reflect"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	commonconfig "github.com/armadaproject/placement/internal/common/config"
	"github.com/armadaproject/placement/internal/common/resource"
)

// newStructValidator returns a go-playground validator that names fields the way they are
// spelled in config files (lower camel case).
func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return lowerFirst(field.Name)
	})
	return v
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// validateStruct runs the struct tag rules of obj and records each violation as an error.
func validateStruct(result *Result, v *validator.Validate, prefix string, obj any) {
	for _, msg := range commonconfig.ValidationErrorMessages(prefix, v.Struct(obj)) {
		result.Errorf("%s", msg)
	}
}

// memoryField parses a memory quantity, recording an error if it is missing (when required),
// unparseable or not positive. ok is false whenever no usable value was produced.
func memoryField(result *Result, field, value string, required bool) (bytes int64, ok bool) {
	if strings.TrimSpace(value) == "" {
		if required {
			result.Errorf("%s is required", field)
		}
		return 0, false
	}
	bytes, err := resource.ParseMemory(value)
	if err != nil {
		result.Errorf("%s: %v", field, err)
		return 0, false
	}
	if bytes <= 0 {
		result.Errorf("%s must be positive, got %q", field, value)
		return 0, false
	}
	return bytes, true
}

// durationField is memoryField for durations.
func durationField(result *Result, field, value string, required bool) (time.Duration, bool) {
	if strings.TrimSpace(value) == "" {
		if required {
			result.Errorf("%s is required", field)
		}
		return 0, false
	}
	d, err := resource.ParseDuration(value)
	if err != nil {
		result.Errorf("%s: %v", field, err)
		return 0, false
	}
	if d <= 0 {
		result.Errorf("%s must be positive, got %q", field, value)
		return 0, false
	}
	return d, true
}
