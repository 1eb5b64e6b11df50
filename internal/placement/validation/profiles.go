package validation

import (
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/placement/internal/common/resource"
	"github.com/armadaproject/placement/internal/placement/configuration"
	"github.com/armadaproject/placement/internal/placement/resourceclass"
	"github.com/armadaproject/placement/internal/placement/scaling"
)

// profilesValidator checks that every required class has a resource policy and that each
// policy says how it grows with the retry attempt.
type profilesValidator struct{}

func (profilesValidator) Validate(c configuration.Configuration) Result {
	var result Result

	policies := make(map[string]configuration.ClassPolicy, len(c.Scaling.Classes))
	for label, policy := range c.Scaling.Classes {
		policies[resourceclass.Parse(label).Key()] = policy
	}

	required := c.Validation.RequiredClasses
	if len(required) == 0 {
		for _, kind := range resourceclass.BuiltinKinds {
			required = append(required, string(kind))
		}
	}
	for _, label := range required {
		if !hasPolicy(policies, resourceclass.Parse(label)) {
			result.Errorf("resource class %q has no resource policy", label)
		}
	}

	maxCpus := c.Scaling.MaxCpus
	maxMemory, _ := resource.ParseMemory(c.Scaling.MaxMemory)
	maxTime, _ := resource.ParseDuration(c.Scaling.MaxTime)

	labels := maps.Keys(policies)
	slices.Sort(labels)
	for _, label := range labels {
		checkPolicy(&result, "scaling.classes."+label, policies[label], c.Validation.StrictValidation, maxCpus, maxMemory, maxTime)
	}

	if c.Scaling.Defaults == (configuration.ClassPolicy{}) {
		result.Warnf("scaling.defaults is not set; unknown classes will request %d cpu, %s and %s",
			scaling.DefaultCpus, resource.FormatMemory(scaling.DefaultMemoryBytes), scaling.DefaultWallClock)
	} else {
		checkPolicy(&result, "scaling.defaults", c.Scaling.Defaults, c.Validation.StrictValidation, maxCpus, maxMemory, maxTime)
	}
	return result
}

func hasPolicy(policies map[string]configuration.ClassPolicy, class resourceclass.Class) bool {
	if _, ok := policies[class.Key()]; ok {
		return true
	}
	if class.Kind == resourceclass.KindCustom {
		return false
	}
	_, ok := policies[string(class.Kind)]
	return ok
}

func checkPolicy(
	result *Result,
	field string,
	policy configuration.ClassPolicy,
	strict bool,
	maxCpus int,
	maxMemory int64,
	maxTime time.Duration,
) {
	switch {
	case policy.Cpus < 0:
		result.Errorf("%s.cpus must not be negative, got %d", field, policy.Cpus)
	case policy.Cpus == 0:
		result.Warnf("%s.cpus is not set; %d cpu will be requested", field, scaling.DefaultCpus)
	case maxCpus > 0 && policy.Cpus > maxCpus:
		result.Warnf("%s.cpus (%d) exceeds scaling.maxCpus (%d) and will always be capped", field, policy.Cpus, maxCpus)
	}

	if memory, ok := memoryField(result, field+".memory", policy.Memory, false); ok && maxMemory > 0 && memory > maxMemory {
		result.Warnf("%s.memory (%s) exceeds scaling.maxMemory and will always be capped", field, policy.Memory)
	} else if policy.Memory == "" {
		result.Warnf("%s.memory is not set; %s will be requested", field, resource.FormatMemory(scaling.DefaultMemoryBytes))
	}

	if d, ok := durationField(result, field+".time", policy.Time, false); ok && maxTime > 0 && d > maxTime {
		result.Warnf("%s.time (%s) exceeds scaling.maxTime and will always be capped", field, policy.Time)
	} else if policy.Time == "" {
		result.Warnf("%s.time is not set; %s will be requested", field, scaling.DefaultWallClock)
	}

	for _, factor := range []struct {
		name  string
		value float64
	}{
		{"cpuFactor", policy.CpuFactor},
		{"memoryFactor", policy.MemoryFactor},
		{"timeFactor", policy.TimeFactor},
	} {
		if factor.value < 0 {
			result.Errorf("%s.%s must not be negative, got %g", field, factor.name, factor.value)
		}
	}
	checkFactorCeilings(result, field, policy, maxCpus, maxMemory, maxTime)

	for _, dimension := range []struct {
		name string
		mode configuration.ScalingMode
	}{
		{"cpuScaling", policy.CpuScaling},
		{"memoryScaling", policy.MemoryScaling},
		{"timeScaling", policy.TimeScaling},
	} {
		switch dimension.mode {
		case configuration.ScalingAttempt:
		case configuration.ScalingFixed:
			result.Warnf("%s.%s is fixed; this dimension will not grow on retry", field, dimension.name)
		case "":
			if strict {
				result.Errorf("%s.%s does not declare attempt scaling", field, dimension.name)
			} else {
				result.Warnf("%s.%s does not declare attempt scaling; scaling by attempt", field, dimension.name)
			}
		default:
			result.Errorf("%s.%s has unknown scaling mode %q; must be one of [%s %s]",
				field, dimension.name, dimension.mode, configuration.ScalingAttempt, configuration.ScalingFixed)
		}
	}
}

// checkFactorCeilings warns about factors that alone lift a first attempt above a ceiling
// its base value is within. Such a class requests the ceiling on every attempt.
func checkFactorCeilings(
	result *Result,
	field string,
	policy configuration.ClassPolicy,
	maxCpus int,
	maxMemory int64,
	maxTime time.Duration,
) {
	baseCpus := float64(scaling.DefaultCpus)
	if policy.Cpus > 0 {
		baseCpus = float64(policy.Cpus)
	}
	baseMemory := float64(scaling.DefaultMemoryBytes)
	if memory, err := resource.ParseMemory(policy.Memory); err == nil && memory > 0 {
		baseMemory = float64(memory)
	}
	baseTime := float64(scaling.DefaultWallClock)
	if d, err := resource.ParseDuration(policy.Time); err == nil && d > 0 {
		baseTime = float64(d)
	}

	for _, dimension := range []struct {
		factorName  string
		ceilingName string
		factor      float64
		base        float64
		ceiling     float64
	}{
		{"cpuFactor", "maxCpus", policy.CpuFactor, baseCpus, float64(maxCpus)},
		{"memoryFactor", "maxMemory", policy.MemoryFactor, baseMemory, float64(maxMemory)},
		{"timeFactor", "maxTime", policy.TimeFactor, baseTime, float64(maxTime)},
	} {
		if dimension.factor <= 1 || dimension.ceiling <= 0 || dimension.base > dimension.ceiling {
			continue
		}
		if dimension.base*dimension.factor > dimension.ceiling {
			result.Warnf("%s.%s (%g) lifts the first attempt above scaling.%s; every attempt will be capped",
				field, dimension.factorName, dimension.factor, dimension.ceilingName)
		}
	}
}
