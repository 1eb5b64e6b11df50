package partition

import (
	"strings"
)

// AvailabilityProvider reports whether a backend partition can currently accept work.
// Implementations must be safe for concurrent use.
type AvailabilityProvider interface {
	IsAvailable(partition string) bool
}

// StaticAvailability treats every partition in the catalog as available, except those the
// operator has explicitly declared unavailable. It never queries the backend.
type StaticAvailability struct {
	available map[string]bool
}

func NewStaticAvailability(catalog Catalog, unavailable []string) StaticAvailability {
	excluded := make(map[string]bool, len(unavailable))
	for _, name := range unavailable {
		excluded[strings.TrimSpace(name)] = true
	}
	available := make(map[string]bool)
	for _, name := range catalog.Names() {
		if !excluded[name] {
			available[name] = true
		}
	}
	return StaticAvailability{available: available}
}

func (a StaticAvailability) IsAvailable(partition string) bool {
	return a.available[partition]
}
