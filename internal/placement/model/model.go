package model

import (
	"fmt"
	"time"

	"github.com/armadaproject/placement/internal/common/resource"
)

// Role is an abstract partition role such as "compute" or "gpu". Operators may define their own.
type Role string

const (
	RoleCompute Role = "compute"
	RoleBigmem  Role = "bigmem"
	RoleGpu     Role = "gpu"
	RoleQuick   Role = "quick"
	// RoleDefault stands for the catalog's default partition rather than a configured role.
	RoleDefault Role = "default"
)

// SelectableRoles are the roles partition selection can choose without a custom mapping.
var SelectableRoles = []Role{RoleCompute, RoleBigmem, RoleGpu, RoleQuick}

// ResourceRequest is the amount of cpu, memory and wall-clock time requested for one attempt of one job.
type ResourceRequest struct {
	Cpus        int           `json:"cpus"`
	MemoryBytes int64         `json:"memoryBytes"`
	WallClock   time.Duration `json:"wallClock"`
}

func (r ResourceRequest) String() string {
	return fmt.Sprintf("cpus: %d, memory: %s, time: %s", r.Cpus, resource.FormatMemory(r.MemoryBytes), r.WallClock)
}

// Placement is the partition a job is routed to, together with the role it was resolved through.
type Placement struct {
	Role      Role   `json:"role"`
	Partition string `json:"partition"`
	// True if the partition was reached through a fallback chain or the default partition
	// rather than the role originally selected.
	FellBack bool `json:"fellBack"`
}
