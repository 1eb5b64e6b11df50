package partition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/placement/internal/common/resource"
	"github.com/armadaproject/placement/internal/placement/configuration"
	"github.com/armadaproject/placement/internal/placement/model"
	"github.com/armadaproject/placement/internal/placement/resourceclass"
)

const gi = resource.Gibibyte

func testCatalog() Catalog {
	return NewCatalog(map[string]string{
		"compute": "general",
		"bigmem":  "highmem",
		"gpu":     "gpu-a100",
		"quick":   "short",
	}, "general")
}

func testThresholds(t *testing.T) Thresholds {
	thresholds, err := ThresholdsFromConfig(configuration.ThresholdConfig{
		BigmemMemory: "128.GB",
		QuickTime:    "1.h",
		QuickMemory:  "16.GB",
		GpuLabels:    []string{"alphafold"},
	})
	require.NoError(t, err)
	return thresholds
}

func request(memory int64, wallClock time.Duration) model.ResourceRequest {
	return model.ResourceRequest{Cpus: 4, MemoryBytes: memory, WallClock: wallClock}
}

func TestSelector_Intelligent(t *testing.T) {
	tests := map[string]struct {
		class    string
		request  model.ResourceRequest
		expected model.Role
	}{
		"gpu label": {
			class:    "process_gpu",
			request:  request(32*gi, 8*time.Hour),
			expected: model.RoleGpu,
		},
		"configured gpu label": {
			class:    "alphafold",
			request:  request(32*gi, 8*time.Hour),
			expected: model.RoleGpu,
		},
		"gpu wins over memory": {
			class:    "process_gpu",
			request:  request(512*gi, 8*time.Hour),
			expected: model.RoleGpu,
		},
		"gpu wins over quick": {
			class:    "gpu",
			request:  request(1*gi, 5*time.Minute),
			expected: model.RoleGpu,
		},
		"memory intensive label": {
			class:    "process_memory_intensive",
			request:  request(256*gi, 12*time.Hour),
			expected: model.RoleBigmem,
		},
		"memory intensive label below threshold": {
			class:    "memory_intensive",
			request:  request(8*gi, 12*time.Hour),
			expected: model.RoleBigmem,
		},
		"medium label above threshold": {
			class:    "process_medium",
			request:  request(200*gi, 8*time.Hour),
			expected: model.RoleBigmem,
		},
		"exactly at threshold stays on compute": {
			class:    "process_medium",
			request:  request(128*gi, 8*time.Hour),
			expected: model.RoleCompute,
		},
		"one byte above threshold goes to bigmem": {
			class:    "process_medium",
			request:  request(128*gi+1, 8*time.Hour),
			expected: model.RoleBigmem,
		},
		"quick label": {
			class:    "process_quick",
			request:  request(8*gi, 30*time.Minute),
			expected: model.RoleQuick,
		},
		"quick label with long time": {
			class:    "quick",
			request:  request(8*gi, 10*time.Hour),
			expected: model.RoleQuick,
		},
		"small and short job": {
			class:    "process_low",
			request:  request(16*gi, time.Hour),
			expected: model.RoleQuick,
		},
		"short job with too much memory": {
			class:    "process_low",
			request:  request(16*gi+1, time.Hour),
			expected: model.RoleCompute,
		},
		"small job slightly too long": {
			class:    "process_low",
			request:  request(2*gi, time.Hour+time.Second),
			expected: model.RoleCompute,
		},
		"zero wall clock is not quick": {
			class:    "process_low",
			request:  request(2*gi, 0),
			expected: model.RoleCompute,
		},
		"high label": {
			class:    "process_high",
			request:  request(72*gi, 16*time.Hour),
			expected: model.RoleCompute,
		},
		"high label above threshold": {
			class:    "process_high",
			request:  request(200*gi, 16*time.Hour),
			expected: model.RoleBigmem,
		},
		"custom label": {
			class:    "assembly",
			request:  request(32*gi, 8*time.Hour),
			expected: model.RoleCompute,
		},
	}
	selector := NewSelector(configuration.StrategyIntelligent, testCatalog(), testThresholds(t), nil)
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, selector.Select(resourceclass.Parse(tc.class), tc.request))
		})
	}
}

func TestSelector_EmptyStrategyIsIntelligent(t *testing.T) {
	selector := NewSelector("", testCatalog(), testThresholds(t), nil)
	assert.Equal(t, model.RoleGpu, selector.Select(resourceclass.Parse("gpu"), request(gi, time.Hour)))
}

func TestSelector_GpuAlwaysWins(t *testing.T) {
	selector := NewSelector(configuration.StrategyIntelligent, testCatalog(), testThresholds(t), nil)
	for _, memory := range []int64{0, gi, 128 * gi, 129 * gi, 4096 * gi} {
		for _, wallClock := range []time.Duration{0, time.Minute, time.Hour, 100 * time.Hour} {
			assert.Equal(t, model.RoleGpu, selector.Select(resourceclass.Parse("process_gpu"), request(memory, wallClock)))
		}
	}
}

func TestSelector_MissingRolesFallBackToCompute(t *testing.T) {
	catalog := NewCatalog(map[string]string{"compute": "general"}, "general")
	selector := NewSelector(configuration.StrategyIntelligent, catalog, testThresholds(t), nil)

	assert.Equal(t, model.RoleCompute, selector.Select(resourceclass.Parse("gpu"), request(gi, 8*time.Hour)))
	assert.Equal(t, model.RoleCompute, selector.Select(resourceclass.Parse("memory_intensive"), request(gi, 8*time.Hour)))
	assert.Equal(t, model.RoleCompute, selector.Select(resourceclass.Parse("quick"), request(gi, 8*time.Hour)))
}

func TestSelector_MissingComputeUsesDefault(t *testing.T) {
	catalog := NewCatalog(map[string]string{"gpu": "gpu-a100"}, "general")
	selector := NewSelector(configuration.StrategyIntelligent, catalog, testThresholds(t), nil)

	assert.Equal(t, model.RoleGpu, selector.Select(resourceclass.Parse("gpu"), request(gi, 8*time.Hour)))
	assert.Equal(t, model.RoleDefault, selector.Select(resourceclass.Parse("medium"), request(gi, 8*time.Hour)))
	assert.Equal(t, model.RoleDefault, selector.Select(resourceclass.Parse("quick"), request(gi, 8*time.Hour)))
}

func TestSelector_Static(t *testing.T) {
	selector := NewSelector(configuration.StrategyStatic, testCatalog(), testThresholds(t), nil)
	for _, class := range []string{"gpu", "memory_intensive", "quick", "high", "low", "custom"} {
		assert.Equal(t, model.RoleCompute, selector.Select(resourceclass.Parse(class), request(512*gi, time.Minute)))
	}
}

func TestSelector_StaticWithoutCompute(t *testing.T) {
	catalog := NewCatalog(map[string]string{"gpu": "gpu-a100"}, "general")
	selector := NewSelector(configuration.StrategyStatic, catalog, testThresholds(t), nil)
	assert.Equal(t, model.RoleDefault, selector.Select(resourceclass.Parse("gpu"), request(gi, time.Hour)))
}

func TestSelector_UserDefined(t *testing.T) {
	mapping := map[string]string{
		"process_gpu": "GPU",
		"assembly":    "bigmem",
	}
	selector := NewSelector(configuration.StrategyUserDefined, testCatalog(), testThresholds(t), mapping)

	assert.Equal(t, model.RoleGpu, selector.Select(resourceclass.Parse("process_gpu"), request(gi, time.Hour)))
	assert.Equal(t, model.RoleBigmem, selector.Select(resourceclass.Parse("Assembly"), request(gi, time.Hour)))
	// Unmapped classes go to the default partition even if they would match a rule.
	assert.Equal(t, model.RoleDefault, selector.Select(resourceclass.Parse("process_quick"), request(gi, time.Minute)))
}

func TestSelector_UnknownStrategyUsesCompute(t *testing.T) {
	selector := NewSelector("round_robin", testCatalog(), testThresholds(t), nil)
	assert.Equal(t, model.RoleCompute, selector.Select(resourceclass.Parse("gpu"), request(gi, time.Hour)))
}

func TestThresholdsFromConfig_Invalid(t *testing.T) {
	_, err := ThresholdsFromConfig(configuration.ThresholdConfig{
		BigmemMemory: "big",
		QuickTime:    "short",
		QuickMemory:  "small",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partitions.thresholds.bigmemMemory")
	assert.Contains(t, err.Error(), "partitions.thresholds.quickTime")
	assert.Contains(t, err.Error(), "partitions.thresholds.quickMemory")
}
