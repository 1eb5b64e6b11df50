package partition

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/placement/internal/common/placementerrors"
	"github.com/armadaproject/placement/internal/common/resource"
	"github.com/armadaproject/placement/internal/placement/configuration"
	"github.com/armadaproject/placement/internal/placement/model"
	"github.com/armadaproject/placement/internal/placement/resourceclass"
)

// Thresholds drive the intelligent selection strategy. Non-positive values disable the
// corresponding size based rule; label based rules still apply.
type Thresholds struct {
	BigmemMemoryBytes int64
	QuickWallClock    time.Duration
	QuickMemoryBytes  int64
	GpuLabels         map[string]bool
}

func ThresholdsFromConfig(config configuration.ThresholdConfig) (Thresholds, error) {
	var result *multierror.Error
	thresholds := Thresholds{GpuLabels: make(map[string]bool, len(config.GpuLabels))}
	if config.BigmemMemory != "" {
		bytes, err := resource.ParseMemory(config.BigmemMemory)
		if err != nil {
			result = multierror.Append(result, invalid("partitions.thresholds.bigmemMemory", config.BigmemMemory, err))
		}
		thresholds.BigmemMemoryBytes = bytes
	}
	if config.QuickMemory != "" {
		bytes, err := resource.ParseMemory(config.QuickMemory)
		if err != nil {
			result = multierror.Append(result, invalid("partitions.thresholds.quickMemory", config.QuickMemory, err))
		}
		thresholds.QuickMemoryBytes = bytes
	}
	if config.QuickTime != "" {
		d, err := resource.ParseDuration(config.QuickTime)
		if err != nil {
			result = multierror.Append(result, invalid("partitions.thresholds.quickTime", config.QuickTime, err))
		}
		thresholds.QuickWallClock = d
	}
	for _, label := range config.GpuLabels {
		thresholds.GpuLabels[resourceclass.Parse(label).Key()] = true
	}
	return thresholds, result.ErrorOrNil()
}

func invalid(field string, value string, err error) error {
	return errors.WithStack(&placementerrors.ErrInvalidArgument{Name: field, Value: value, Message: err.Error()})
}

// Selector picks a partition role for a job. It is a pure function of its configuration.
type Selector struct {
	strategy      configuration.Strategy
	catalog       Catalog
	thresholds    Thresholds
	customMapping map[string]model.Role
}

func NewSelector(strategy configuration.Strategy, catalog Catalog, thresholds Thresholds, customMapping map[string]string) Selector {
	mapping := make(map[string]model.Role, len(customMapping))
	for label, role := range customMapping {
		mapping[resourceclass.Parse(label).Key()] = NormaliseRole(role)
	}
	return Selector{
		strategy:      strategy,
		catalog:       catalog,
		thresholds:    thresholds,
		customMapping: mapping,
	}
}

// Select returns the role a job of class requesting request should be routed to.
func (s Selector) Select(class resourceclass.Class, request model.ResourceRequest) model.Role {
	switch s.strategy {
	case configuration.StrategyIntelligent, "":
		return s.selectIntelligent(class, request)
	case configuration.StrategyStatic:
		return s.catalog.preferred(model.RoleCompute)
	case configuration.StrategyUserDefined:
		if role, ok := s.customMapping[class.Key()]; ok {
			return role
		}
		// Operators that opted into explicit mapping get the default partition, not compute.
		return model.RoleDefault
	default:
		// Unknown strategies fail validation.
		return s.catalog.preferred(model.RoleCompute)
	}
}

// selectIntelligent evaluates the routing rules in priority order; the first match wins.
// Size comparisons against the bigmem threshold are strict, so a job requesting exactly the
// threshold stays on the cheaper partition.
func (s Selector) selectIntelligent(class resourceclass.Class, request model.ResourceRequest) model.Role {
	t := s.thresholds

	// GPU placement wins over memory based routing.
	if class.IsGpu || t.GpuLabels[class.Key()] {
		return s.catalog.preferred(model.RoleGpu)
	}

	exceedsBigmem := t.BigmemMemoryBytes > 0 && request.MemoryBytes > t.BigmemMemoryBytes
	if class.IsMemoryIntensive || exceedsBigmem {
		return s.catalog.preferred(model.RoleBigmem)
	}

	fitsQuick := t.QuickWallClock > 0 &&
		request.WallClock > 0 &&
		request.WallClock <= t.QuickWallClock &&
		request.MemoryBytes <= t.QuickMemoryBytes
	if class.IsQuick || fitsQuick {
		return s.catalog.preferred(model.RoleQuick)
	}

	// High-performance work always asks for compute; if compute is unmapped the fallback
	// chain decides where it goes.
	if class.IsHigh && !exceedsBigmem {
		return model.RoleCompute
	}

	return s.catalog.preferred(model.RoleCompute)
}
