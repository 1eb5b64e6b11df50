package partition

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/placement/internal/placement/model"
)

// Catalog maps partition roles onto backend partition names.
type Catalog struct {
	partitions       map[model.Role]string
	defaultPartition string
}

func NewCatalog(partitions map[string]string, defaultPartition string) Catalog {
	catalog := Catalog{
		partitions:       make(map[model.Role]string, len(partitions)),
		defaultPartition: strings.TrimSpace(defaultPartition),
	}
	for role, name := range partitions {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		catalog.partitions[NormaliseRole(role)] = name
	}
	return catalog
}

// NormaliseRole maps a configured role name onto a Role.
func NormaliseRole(role string) model.Role {
	return model.Role(strings.ToLower(strings.TrimSpace(role)))
}

// Lookup returns the backend partition for role. RoleDefault always refers to the default partition.
func (c Catalog) Lookup(role model.Role) (string, bool) {
	if role == model.RoleDefault {
		return c.defaultPartition, c.defaultPartition != ""
	}
	name, ok := c.partitions[role]
	return name, ok
}

// Has returns true if role is mapped to a backend partition.
func (c Catalog) Has(role model.Role) bool {
	_, ok := c.Lookup(role)
	return ok
}

func (c Catalog) DefaultPartition() string {
	return c.defaultPartition
}

// Roles returns the configured roles in sorted order.
func (c Catalog) Roles() []model.Role {
	roles := maps.Keys(c.partitions)
	slices.Sort(roles)
	return roles
}

// Names returns every distinct partition name in the catalog, including the default, sorted.
func (c Catalog) Names() []string {
	seen := make(map[string]bool, len(c.partitions)+1)
	for _, name := range c.partitions {
		seen[name] = true
	}
	if c.defaultPartition != "" {
		seen[c.defaultPartition] = true
	}
	names := maps.Keys(seen)
	slices.Sort(names)
	return names
}

// preferred returns role if it is mapped, otherwise compute, otherwise the default partition.
func (c Catalog) preferred(role model.Role) model.Role {
	if c.Has(role) {
		return role
	}
	if c.Has(model.RoleCompute) {
		return model.RoleCompute
	}
	return model.RoleDefault
}
