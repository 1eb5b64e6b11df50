package validation

import (
	"github.com/armadaproject/placement/internal/placement/configuration"
)

// MaxRetryScalingWarningThreshold is the retry scaling cap above which resources are
// likely to balloon on repeated failures.
const MaxRetryScalingWarningThreshold = 10

type resourcesValidator struct{}

func (resourcesValidator) Validate(c configuration.Configuration) Result {
	var result Result
	s := c.Scaling
	if s.MaxCpus <= 0 {
		result.Errorf("scaling.maxCpus must be positive, got %d", s.MaxCpus)
	}
	memoryField(&result, "scaling.maxMemory", s.MaxMemory, true)
	durationField(&result, "scaling.maxTime", s.MaxTime, true)
	switch {
	case s.MaxRetryScaling < 1:
		result.Errorf("scaling.maxRetryScaling must be at least 1, got %d", s.MaxRetryScaling)
	case s.MaxRetryScaling > MaxRetryScalingWarningThreshold:
		result.Warnf(
			"scaling.maxRetryScaling is %d; resources may grow up to %dx on retries",
			s.MaxRetryScaling, s.MaxRetryScaling)
	}
	return result
}
