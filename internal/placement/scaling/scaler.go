package scaling

import (
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/placement/internal/common/placementerrors"
	"github.com/armadaproject/placement/internal/common/resource"
	"github.com/armadaproject/placement/internal/placement/configuration"
	"github.com/armadaproject/placement/internal/placement/model"
	"github.com/armadaproject/placement/internal/placement/resourceclass"
)

// Floors used when a policy leaves a base value unset, so that every request is non-zero.
const (
	DefaultCpus        = 1
	DefaultMemoryBytes = resource.Gibibyte
	DefaultWallClock   = time.Hour
)

// Func computes the value of one resource dimension for a given attempt.
// The attempt passed in has already been capped at the policy's MaxRetryScaling.
type Func func(base float64, attempt int) float64

// ByAttempt grows the value linearly with the attempt.
func ByAttempt(base float64, attempt int) float64 {
	return base * float64(attempt)
}

// Fixed ignores the attempt.
func Fixed(base float64, _ int) float64 {
	return base
}

// FuncFor returns the scaling function for mode. An undeclared mode scales with the attempt.
func FuncFor(mode configuration.ScalingMode) Func {
	if mode == configuration.ScalingFixed {
		return Fixed
	}
	return ByAttempt
}

type Dimension struct {
	Factor float64
	Scale  Func
}

func (d Dimension) apply(base float64, attempt int) float64 {
	factor := d.Factor
	if factor <= 0 {
		factor = 1
	}
	scale := d.Scale
	if scale == nil {
		scale = ByAttempt
	}
	return scale(base*factor, attempt)
}

type ClassPolicy struct {
	Base   model.ResourceRequest
	Cpu    Dimension
	Memory Dimension
	Time   Dimension
}

// Policy is the parsed, read-only scaling configuration.
type Policy struct {
	Classes         map[string]ClassPolicy
	Defaults        ClassPolicy
	MaxCpus         int
	MaxMemoryBytes  int64
	MaxWallClock    time.Duration
	MaxRetryScaling int
}

// For returns the policy for class: an exact label match first, then the built-in kind the
// label resolved to, then the defaults.
func (p Policy) For(class resourceclass.Class) ClassPolicy {
	if cp, ok := p.Classes[class.Key()]; ok {
		return cp
	}
	if class.Kind != resourceclass.KindCustom {
		if cp, ok := p.Classes[string(class.Kind)]; ok {
			return cp
		}
	}
	return p.Defaults
}

// PolicyFromConfig parses config, returning every parse problem found.
func PolicyFromConfig(config configuration.ScalingConfig) (Policy, error) {
	var result *multierror.Error
	policy := Policy{
		Classes:         make(map[string]ClassPolicy, len(config.Classes)),
		MaxCpus:         config.MaxCpus,
		MaxRetryScaling: config.MaxRetryScaling,
	}
	if config.MaxMemory != "" {
		maxMemory, err := resource.ParseMemory(config.MaxMemory)
		if err != nil {
			result = multierror.Append(result, invalid("scaling.maxMemory", config.MaxMemory, err))
		}
		policy.MaxMemoryBytes = maxMemory
	}
	if config.MaxTime != "" {
		maxTime, err := resource.ParseDuration(config.MaxTime)
		if err != nil {
			result = multierror.Append(result, invalid("scaling.maxTime", config.MaxTime, err))
		}
		policy.MaxWallClock = maxTime
	}
	for label, classConfig := range config.Classes {
		cp, err := classPolicyFromConfig("scaling.classes."+label, classConfig)
		if err != nil {
			result = multierror.Append(result, err)
		}
		policy.Classes[resourceclass.Parse(label).Key()] = cp
	}
	defaults, err := classPolicyFromConfig("scaling.defaults", config.Defaults)
	if err != nil {
		result = multierror.Append(result, err)
	}
	policy.Defaults = defaults
	return policy, result.ErrorOrNil()
}

func classPolicyFromConfig(field string, config configuration.ClassPolicy) (ClassPolicy, error) {
	var result *multierror.Error
	cp := ClassPolicy{
		Base: model.ResourceRequest{Cpus: config.Cpus},
		Cpu:  Dimension{Factor: config.CpuFactor, Scale: FuncFor(config.CpuScaling)},
		Memory: Dimension{
			Factor: config.MemoryFactor,
			Scale:  FuncFor(config.MemoryScaling),
		},
		Time: Dimension{Factor: config.TimeFactor, Scale: FuncFor(config.TimeScaling)},
	}
	if config.Memory != "" {
		memory, err := resource.ParseMemory(config.Memory)
		if err != nil {
			result = multierror.Append(result, invalid(field+".memory", config.Memory, err))
		}
		cp.Base.MemoryBytes = memory
	}
	if config.Time != "" {
		wallClock, err := resource.ParseDuration(config.Time)
		if err != nil {
			result = multierror.Append(result, invalid(field+".time", config.Time, err))
		}
		cp.Base.WallClock = wallClock
	}
	return cp, result.ErrorOrNil()
}

func invalid(field string, value string, err error) error {
	return errors.WithStack(&placementerrors.ErrInvalidArgument{Name: field, Value: value, Message: err.Error()})
}

// Hint records that a dimension was clamped to its ceiling.
type Hint struct {
	Dimension string
	Requested string
	Ceiling   string
}

func (h Hint) String() string {
	return fmt.Sprintf("%s capped at %s (requested %s)", h.Dimension, h.Ceiling, h.Requested)
}

// Scaler computes resource requests. It holds no mutable state and is safe for concurrent use.
type Scaler struct {
	policy Policy
}

func NewScaler(policy Policy) *Scaler {
	return &Scaler{policy: policy}
}

// Scale returns the resources to request for attempt of a job of class.
func (s *Scaler) Scale(class resourceclass.Class, attempt int) (model.ResourceRequest, []Hint) {
	return s.ScaleWithOverrides(class, attempt, model.ResourceRequest{})
}

// ScaleWithOverrides is Scale, except that non-zero fields of explicit replace the computed
// values. Explicit values are still clamped to the ceilings.
func (s *Scaler) ScaleWithOverrides(class resourceclass.Class, attempt int, explicit model.ResourceRequest) (model.ResourceRequest, []Hint) {
	cp := s.policy.For(class)
	capped := s.cappedAttempt(attempt)

	baseCpus := cp.Base.Cpus
	if baseCpus <= 0 {
		baseCpus = DefaultCpus
	}
	baseMemory := cp.Base.MemoryBytes
	if baseMemory <= 0 {
		baseMemory = DefaultMemoryBytes
	}
	baseTime := cp.Base.WallClock
	if baseTime <= 0 {
		baseTime = DefaultWallClock
	}

	request := model.ResourceRequest{
		Cpus:        int(saturate(math.Round(cp.Cpu.apply(float64(baseCpus), capped)), math.MaxInt)),
		MemoryBytes: saturate(math.Ceil(cp.Memory.apply(float64(baseMemory), capped)), math.MaxInt64),
		WallClock:   time.Duration(saturate(math.Ceil(cp.Time.apply(float64(baseTime), capped)), math.MaxInt64)),
	}
	if explicit.Cpus > 0 {
		request.Cpus = explicit.Cpus
	}
	if explicit.MemoryBytes > 0 {
		request.MemoryBytes = explicit.MemoryBytes
	}
	if explicit.WallClock > 0 {
		request.WallClock = explicit.WallClock
	}
	return s.Clamp(request)
}

// Clamp bounds each dimension of request to (0, ceiling]. A non-positive ceiling is treated as unset.
func (s *Scaler) Clamp(request model.ResourceRequest) (model.ResourceRequest, []Hint) {
	var hints []Hint
	if request.Cpus < 1 {
		request.Cpus = 1
	}
	if request.MemoryBytes < 1 {
		request.MemoryBytes = DefaultMemoryBytes
	}
	if request.WallClock <= 0 {
		request.WallClock = DefaultWallClock
	}
	if s.policy.MaxCpus > 0 && request.Cpus > s.policy.MaxCpus {
		hints = append(hints, Hint{
			Dimension: "cpus",
			Requested: fmt.Sprint(request.Cpus),
			Ceiling:   fmt.Sprint(s.policy.MaxCpus),
		})
		request.Cpus = s.policy.MaxCpus
	}
	if s.policy.MaxMemoryBytes > 0 && request.MemoryBytes > s.policy.MaxMemoryBytes {
		hints = append(hints, Hint{
			Dimension: "memory",
			Requested: resource.FormatMemory(request.MemoryBytes),
			Ceiling:   resource.FormatMemory(s.policy.MaxMemoryBytes),
		})
		request.MemoryBytes = s.policy.MaxMemoryBytes
	}
	if s.policy.MaxWallClock > 0 && request.WallClock > s.policy.MaxWallClock {
		hints = append(hints, Hint{
			Dimension: "time",
			Requested: request.WallClock.String(),
			Ceiling:   s.policy.MaxWallClock.String(),
		})
		request.WallClock = s.policy.MaxWallClock
	}
	return request, hints
}

// saturate converts v to an integer no greater than limit. Values the integer type cannot
// hold become limit, so Clamp caps them at the ceiling rather than seeing a wrapped value.
func saturate(v float64, limit int64) int64 {
	if math.IsNaN(v) || v >= float64(limit) {
		return limit
	}
	return int64(v)
}

func (s *Scaler) cappedAttempt(attempt int) int {
	if attempt < 1 {
		attempt = 1
	}
	limit := s.policy.MaxRetryScaling
	if limit < 1 {
		limit = 1
	}
	if attempt > limit {
		return limit
	}
	return attempt
}
