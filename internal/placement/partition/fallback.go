package partition

import (
	"github.com/armadaproject/placement/internal/placement/model"
)

// Resolver turns the role chosen by a Selector into a concrete backend partition.
type Resolver struct {
	catalog      Catalog
	chains       map[model.Role][]model.Role
	availability AvailabilityProvider
	enabled      bool
}

// NewResolver creates a Resolver. When enabled is false the selected role's partition is
// returned without consulting availability or fallbacks, which is useful for offline checks.
func NewResolver(catalog Catalog, fallbacks map[string][]string, availability AvailabilityProvider, enabled bool) Resolver {
	chains := make(map[model.Role][]model.Role, len(fallbacks))
	for role, chain := range fallbacks {
		roles := make([]model.Role, 0, len(chain))
		for _, fallback := range chain {
			roles = append(roles, NormaliseRole(fallback))
		}
		chains[NormaliseRole(role)] = roles
	}
	if availability == nil {
		availability = NewStaticAvailability(catalog, nil)
	}
	return Resolver{
		catalog:      catalog,
		chains:       chains,
		availability: availability,
		enabled:      enabled,
	}
}

// Resolve returns the partition for role. The fallback chain is walked as a flat list and
// entries naming role itself are skipped, so a self-referencing chain cannot loop.
func (r Resolver) Resolve(role model.Role) model.Placement {
	name, mapped := r.catalog.Lookup(role)
	if !r.enabled {
		if mapped {
			return model.Placement{Role: role, Partition: name}
		}
		return r.defaultPlacement(role)
	}

	if mapped && r.availability.IsAvailable(name) {
		return model.Placement{Role: role, Partition: name}
	}
	for _, fallback := range r.chains[role] {
		if fallback == role {
			continue
		}
		if name, ok := r.catalog.Lookup(fallback); ok && r.availability.IsAvailable(name) {
			return model.Placement{Role: fallback, Partition: name, FellBack: true}
		}
	}
	return r.defaultPlacement(role)
}

func (r Resolver) defaultPlacement(selected model.Role) model.Placement {
	return model.Placement{
		Role:      model.RoleDefault,
		Partition: r.catalog.DefaultPartition(),
		FellBack:  selected != model.RoleDefault,
	}
}
