package validation

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/placement/internal/common/resource"
	"github.com/armadaproject/placement/internal/placement/configuration"
	"github.com/armadaproject/placement/internal/placement/model"
	"github.com/armadaproject/placement/internal/placement/partition"
)

// MinimumBigmemThreshold is the bigmem threshold below which routing most likely sends
// ordinary jobs to expensive nodes.
const MinimumBigmemThreshold = 32 * resource.Gibibyte

type partitionsValidator struct{}

func (partitionsValidator) Validate(c configuration.Configuration) Result {
	var result Result
	p := c.Partitions

	strategy := p.Strategy
	switch strategy {
	case configuration.StrategyIntelligent, configuration.StrategyStatic, configuration.StrategyUserDefined:
	case "":
		strategy = configuration.StrategyIntelligent
	default:
		result.Errorf("partitions.strategy %q is invalid; must be one of [%s %s %s]",
			p.Strategy, configuration.StrategyIntelligent, configuration.StrategyStatic, configuration.StrategyUserDefined)
	}

	if strings.TrimSpace(p.DefaultPartition) == "" {
		result.Errorf("partitions.defaultPartition is required")
	}

	roles := maps.Keys(p.Partitions)
	slices.Sort(roles)
	for _, role := range roles {
		if strings.TrimSpace(p.Partitions[role]) == "" {
			result.Errorf("partitions.partitions.%s maps to an empty partition name", role)
		}
	}

	catalog := partition.NewCatalog(p.Partitions, p.DefaultPartition)
	chains := make(map[model.Role][]model.Role, len(p.Fallbacks))
	for role, chain := range p.Fallbacks {
		normalised := partition.NormaliseRole(role)
		for _, fallback := range chain {
			chains[normalised] = append(chains[normalised], partition.NormaliseRole(fallback))
		}
	}

	chainRoles := maps.Keys(chains)
	slices.Sort(chainRoles)
	for _, role := range chainRoles {
		for _, fallback := range chains[role] {
			if fallback == role {
				result.Errorf("partitions.fallbacks.%s lists itself as a fallback", role)
			}
		}
	}

	// Every role the configuration refers to must lead somewhere.
	referenced := make(map[model.Role]bool)
	for _, role := range chainRoles {
		referenced[role] = true
		for _, fallback := range chains[role] {
			referenced[fallback] = true
		}
	}
	if strategy == configuration.StrategyUserDefined {
		for _, role := range p.CustomMapping {
			referenced[partition.NormaliseRole(role)] = true
		}
		if len(p.CustomMapping) == 0 {
			result.Warnf("partitions.strategy is user_defined but partitions.customMapping is empty; every job will use the default partition")
		}
	}
	referencedRoles := maps.Keys(referenced)
	slices.Sort(referencedRoles)
	for _, role := range referencedRoles {
		if !catalog.Has(role) && len(chains[role]) == 0 {
			result.Errorf("partition role %q is referenced but has neither a partition mapping nor a fallback", role)
		}
	}

	for _, role := range catalog.Roles() {
		if !slices.Contains(model.SelectableRoles, role) && !referenced[role] {
			result.Warnf("partitions.partitions.%s is never selected; only a custom mapping or fallback chain can route to it", role)
		}
	}

	unavailable := make(map[string]bool, len(p.UnavailablePartitions))
	known := make(map[string]bool)
	for _, name := range catalog.Names() {
		known[name] = true
	}
	for _, name := range p.UnavailablePartitions {
		unavailable[name] = true
		if !known[name] {
			result.Warnf("partitions.unavailablePartitions lists %q which is not in the partition catalog", name)
		}
	}
	if p.DefaultPartition != "" && unavailable[p.DefaultPartition] {
		result.Warnf("default partition %q is declared unavailable but remains the last resort for every job", p.DefaultPartition)
	}
	if !c.Validation.EnablePartitionValidation {
		result.Warnf("partition validation is disabled; selected partitions are used without availability or fallback checks")
	}

	checkThresholds(&result, p.Thresholds, strategy == configuration.StrategyIntelligent)
	return result
}

func checkThresholds(result *Result, t configuration.ThresholdConfig, required bool) {
	bigmem, bigmemOk := memoryField(result, "partitions.thresholds.bigmemMemory", t.BigmemMemory, required)
	quickMemory, quickMemoryOk := memoryField(result, "partitions.thresholds.quickMemory", t.QuickMemory, required)
	durationField(result, "partitions.thresholds.quickTime", t.QuickTime, required)

	if bigmemOk && bigmem < MinimumBigmemThreshold {
		result.Warnf("partitions.thresholds.bigmemMemory (%s) is below %s and looks low",
			t.BigmemMemory, resource.FormatMemory(MinimumBigmemThreshold))
	}
	if bigmemOk && quickMemoryOk && quickMemory > bigmem {
		result.Warnf("partitions.thresholds.quickMemory (%s) exceeds bigmemMemory (%s); such jobs are routed to bigmem first",
			t.QuickMemory, t.BigmemMemory)
	}
}
