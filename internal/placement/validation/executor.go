package validation

import (
	"github.com/armadaproject/placement/internal/placement/configuration"
)

// executorValidator applies backend specific sanity rules.
type executorValidator struct {
	env Environment
}

func (v executorValidator) Validate(c configuration.Configuration) Result {
	var result Result
	validateStruct(&result, newStructValidator(), "executor", c.Executor)

	switch c.Executor.Name {
	case configuration.ExecutorLocal:
		hostCpus := c.Executor.HostCpus
		if hostCpus == 0 && v.env.HostCpus != nil {
			hostCpus = v.env.HostCpus()
		}
		if hostCpus > 0 && c.Scaling.MaxCpus > hostCpus {
			result.Warnf("scaling.maxCpus (%d) exceeds the %d cpus available to the local executor", c.Scaling.MaxCpus, hostCpus)
		}
		if len(c.Submission.ClusterOptions) > 0 {
			result.Warnf("submission.clusterOptions are ignored by the local executor")
		}
	case configuration.ExecutorSlurm:
		if len(c.Partitions.Partitions) == 0 && c.Partitions.DefaultPartition == "" && len(c.Submission.ClusterOptions) == 0 {
			result.Warnf("slurm execution should specify a partition or explicit submission.clusterOptions")
		}
	}

	memoryField(&result, "submission.exclusiveMemoryThreshold", c.Submission.ExclusiveMemoryThreshold, false)
	memoryField(&result, "submission.memPerCpuFloor", c.Submission.MemPerCpuFloor, false)
	if c.Submission.Nice < 0 {
		result.Errorf("submission.nice must not be negative, got %d", c.Submission.Nice)
	}
	return result
}
