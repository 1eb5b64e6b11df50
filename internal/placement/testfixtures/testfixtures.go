package testfixtures

// This file contains test fixtures to be used throughout the tests of the placement packages.
import (
	"github.com/armadaproject/placement/internal/placement/configuration"
)

const (
	TestComputePartition = "general"
	TestBigmemPartition  = "highmem"
	TestGpuPartition     = "gpu-a100"
	TestQuickPartition   = "short"
)

func attemptPolicy(cpus int, memory, time string) configuration.ClassPolicy {
	return configuration.ClassPolicy{
		Cpus:          cpus,
		Memory:        memory,
		Time:          time,
		CpuScaling:    configuration.ScalingAttempt,
		MemoryScaling: configuration.ScalingAttempt,
		TimeScaling:   configuration.ScalingAttempt,
	}
}

// Configuration returns a complete configuration that passes validation without warnings,
// apart from anything that depends on the host.
func Configuration() configuration.Configuration {
	return configuration.Configuration{
		LogLevel: "info",
		Scaling: configuration.ScalingConfig{
			MaxCpus:         32,
			MaxMemory:       "512.GB",
			MaxTime:         "72.h",
			MaxRetryScaling: 3,
			Classes: map[string]configuration.ClassPolicy{
				"low":              attemptPolicy(2, "12.GB", "4.h"),
				"medium":           attemptPolicy(6, "36.GB", "8.h"),
				"high":             attemptPolicy(12, "72.GB", "16.h"),
				"memory_intensive": attemptPolicy(16, "256.GB", "12.h"),
				"gpu":              attemptPolicy(8, "32.GB", "8.h"),
				"quick":            attemptPolicy(1, "8.GB", "30m"),
			},
			Defaults: attemptPolicy(1, "6.GB", "4.h"),
		},
		Partitions: configuration.PartitionConfig{
			Strategy: configuration.StrategyIntelligent,
			Partitions: map[string]string{
				"compute": TestComputePartition,
				"bigmem":  TestBigmemPartition,
				"gpu":     TestGpuPartition,
				"quick":   TestQuickPartition,
			},
			DefaultPartition: TestComputePartition,
			Fallbacks: map[string][]string{
				"bigmem": {"compute"},
				"gpu":    {"compute"},
				"quick":  {"compute"},
			},
			Thresholds: configuration.ThresholdConfig{
				BigmemMemory: "128.GB",
				QuickTime:    "1.h",
				QuickMemory:  "16.GB",
			},
		},
		Submission: configuration.SubmissionConfig{
			ExclusiveMemoryThreshold: "256.GB",
			MemPerCpuFloor:           "8.GB",
		},
		Executor: configuration.ExecutorConfig{
			Name:     configuration.ExecutorSlurm,
			HostCpus: 64,
		},
		Validation: configuration.ValidationConfig{
			EnablePartitionValidation: true,
		},
	}
}
