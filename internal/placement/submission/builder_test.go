package submission

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

func testOptions(t *testing.T) Options {
	options, err := OptionsFromConfig(configuration.SubmissionConfig{
		ExclusiveMemoryThreshold: "256.GB",
		MemPerCpuFloor:           "8.GB",
	})
	require.NoError(t, err)
	return options
}

func TestBuilder_Slurm(t *testing.T) {
	tests := map[string]struct {
		options   func(Options) Options
		class     string
		placement model.Placement
		request   model.ResourceRequest
		extra     []string
		expected  []string
	}{
		"compute medium": {
			class:     "process_medium",
			placement: model.Placement{Role: model.RoleCompute, Partition: "general"},
			request:   model.ResourceRequest{Cpus: 6, MemoryBytes: 36 * gi, WallClock: 8 * time.Hour},
			expected:  []string{"--mem=36G", "--ntasks=1", "--cpus-per-task=6"},
		},
		"memory not a whole number of gigabytes": {
			class:     "medium",
			placement: model.Placement{Role: model.RoleCompute, Partition: "general"},
			request:   model.ResourceRequest{Cpus: 1, MemoryBytes: 1536 * resource.Mebibyte, WallClock: time.Hour},
			expected:  []string{"--mem=1536M", "--ntasks=1", "--cpus-per-task=1"},
		},
		"bigmem below high water mark": {
			class:     "process_medium",
			placement: model.Placement{Role: model.RoleBigmem, Partition: "highmem"},
			request:   model.ResourceRequest{Cpus: 8, MemoryBytes: 200 * gi, WallClock: 8 * time.Hour},
			expected:  []string{"--mem=200G", "--ntasks=1", "--cpus-per-task=8", "--constraint=bigmem"},
		},
		"bigmem exactly at high water mark": {
			class:     "process_medium",
			placement: model.Placement{Role: model.RoleBigmem, Partition: "highmem"},
			request:   model.ResourceRequest{Cpus: 8, MemoryBytes: 256 * gi, WallClock: 8 * time.Hour},
			expected:  []string{"--mem=256G", "--ntasks=1", "--cpus-per-task=8", "--constraint=bigmem"},
		},
		"memory intensive above high water mark": {
			class:     "process_memory_intensive",
			placement: model.Placement{Role: model.RoleBigmem, Partition: "highmem"},
			request:   model.ResourceRequest{Cpus: 16, MemoryBytes: 512 * gi, WallClock: 12 * time.Hour},
			expected: []string{
				"--mem=512G", "--ntasks=1", "--cpus-per-task=16",
				"--exclusive", "--constraint=bigmem",
				"--mem-per-cpu=32G",
			},
		},
		"memory intensive uses floor when share is small": {
			class:     "memory_intensive",
			placement: model.Placement{Role: model.RoleBigmem, Partition: "highmem"},
			request:   model.ResourceRequest{Cpus: 16, MemoryBytes: 64 * gi, WallClock: 12 * time.Hour},
			expected: []string{
				"--mem=64G", "--ntasks=1", "--cpus-per-task=16",
				"--constraint=bigmem",
				"--mem-per-cpu=8G",
			},
		},
		"gpu": {
			class:     "process_gpu",
			placement: model.Placement{Role: model.RoleGpu, Partition: "gpu-a100"},
			request:   model.ResourceRequest{Cpus: 8, MemoryBytes: 32 * gi, WallClock: 8 * time.Hour},
			expected: []string{
				"--mem=32G", "--ntasks=1", "--cpus-per-task=8",
				"--gres=gpu:1", "--constraint=gpu",
				"--gpus-per-task=1",
			},
		},
		"gpu with type and memory tier": {
			options: func(o Options) Options {
				o.GpuType = "a100"
				o.GpuMemoryTier = "gpu_80gb"
				return o
			},
			class:     "gpu",
			placement: model.Placement{Role: model.RoleGpu, Partition: "gpu-a100"},
			request:   model.ResourceRequest{Cpus: 8, MemoryBytes: 32 * gi, WallClock: 8 * time.Hour},
			expected: []string{
				"--mem=32G", "--ntasks=1", "--cpus-per-task=8",
				"--gres=gpu:a100:1", "--constraint=gpu",
				"--gpus-per-task=1", "--constraint=gpu_80gb",
			},
		},
		"gpu class routed to compute keeps class flags": {
			class:     "process_gpu",
			placement: model.Placement{Role: model.RoleCompute, Partition: "general", FellBack: true},
			request:   model.ResourceRequest{Cpus: 8, MemoryBytes: 32 * gi, WallClock: 8 * time.Hour},
			expected: []string{
				"--mem=32G", "--ntasks=1", "--cpus-per-task=8",
				"--gpus-per-task=1",
			},
		},
		"quick": {
			class:     "process_quick",
			placement: model.Placement{Role: model.RoleQuick, Partition: "short"},
			request:   model.ResourceRequest{Cpus: 1, MemoryBytes: 8 * gi, WallClock: 30 * time.Minute},
			expected: []string{
				"--mem=8G", "--ntasks=1", "--cpus-per-task=1",
				"--nice=100", "--qos=quick",
				"--no-requeue",
			},
		},
		"quick with custom nice and qos": {
			options: func(o Options) Options {
				o.Nice = 50
				o.QuickQos = "express"
				return o
			},
			class:     "process_low",
			placement: model.Placement{Role: model.RoleQuick, Partition: "short"},
			request:   model.ResourceRequest{Cpus: 1, MemoryBytes: 2 * gi, WallClock: 30 * time.Minute},
			expected: []string{
				"--mem=2G", "--ntasks=1", "--cpus-per-task=1",
				"--nice=50", "--qos=express",
				"--oversubscribe",
			},
		},
		"custom label containing low does not share nodes": {
			class:     "flowcell_demux",
			placement: model.Placement{Role: model.RoleCompute, Partition: "general"},
			request:   model.ResourceRequest{Cpus: 2, MemoryBytes: 6 * gi, WallClock: 4 * time.Hour},
			expected:  []string{"--mem=6G", "--ntasks=1", "--cpus-per-task=2"},
		},
		"high": {
			class:     "process_high",
			placement: model.Placement{Role: model.RoleCompute, Partition: "general"},
			request:   model.ResourceRequest{Cpus: 12, MemoryBytes: 72 * gi, WallClock: 16 * time.Hour},
			expected:  []string{"--mem=72G", "--ntasks=1", "--cpus-per-task=12", "--exclusive"},
		},
		"default partition gets no role flags": {
			class:     "assembly",
			placement: model.Placement{Role: model.RoleDefault, Partition: "general", FellBack: true},
			request:   model.ResourceRequest{Cpus: 2, MemoryBytes: 4 * gi, WallClock: time.Hour},
			expected:  []string{"--mem=4G", "--ntasks=1", "--cpus-per-task=2"},
		},
		"cluster options then extra options last": {
			options: func(o Options) Options {
				o.ClusterOptions = []string{"--account=genomics"}
				return o
			},
			class:     "process_high",
			placement: model.Placement{Role: model.RoleCompute, Partition: "general"},
			request:   model.ResourceRequest{Cpus: 12, MemoryBytes: 72 * gi, WallClock: 16 * time.Hour},
			extra:     []string{"--exclusive=user", "--mem=80G"},
			expected: []string{
				"--mem=72G", "--ntasks=1", "--cpus-per-task=12", "--exclusive",
				"--account=genomics",
				"--exclusive=user", "--mem=80G",
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			options := testOptions(t)
			if tc.options != nil {
				options = tc.options(options)
			}
			builder := NewBuilder(configuration.ExecutorSlurm, options)
			actual := builder.Build(resourceclass.Parse(tc.class), tc.placement, tc.request, tc.extra)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestBuilder_Stable(t *testing.T) {
	builder := NewBuilder(configuration.ExecutorSlurm, testOptions(t))
	class := resourceclass.Parse("process_memory_intensive")
	placement := model.Placement{Role: model.RoleBigmem, Partition: "highmem"}
	request := model.ResourceRequest{Cpus: 16, MemoryBytes: 512 * gi, WallClock: 12 * time.Hour}

	first := builder.Build(class, placement, request, []string{"--comment=x"})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, builder.Build(class, placement, request, []string{"--comment=x"}))
	}
}

func TestBuilder_Local(t *testing.T) {
	options := testOptions(t)
	options.ClusterOptions = []string{"--account=genomics"}
	builder := NewBuilder(configuration.ExecutorLocal, options)

	actual := builder.Build(
		resourceclass.Parse("process_gpu"),
		model.Placement{Role: model.RoleGpu, Partition: "gpu"},
		model.ResourceRequest{Cpus: 8, MemoryBytes: 32 * gi, WallClock: time.Hour},
		[]string{"--verbose"},
	)
	assert.Equal(t, []string{"--account=genomics", "--verbose"}, actual)

	assert.Empty(t, NewBuilder(configuration.ExecutorLocal, Options{}).Build(
		resourceclass.Parse("low"),
		model.Placement{Role: model.RoleCompute, Partition: "general"},
		model.ResourceRequest{Cpus: 1, MemoryBytes: gi, WallClock: time.Hour},
		nil,
	))
}

func TestOptionsFromConfig(t *testing.T) {
	options, err := OptionsFromConfig(configuration.SubmissionConfig{})
	require.NoError(t, err)
	assert.Equal(t, Options{Nice: DefaultNice, QuickQos: DefaultQuickQos}, options)

	_, err = OptionsFromConfig(configuration.SubmissionConfig{
		ExclusiveMemoryThreshold: "huge",
		MemPerCpuFloor:           "some",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submission.exclusiveMemoryThreshold")
	assert.Contains(t, err.Error(), "submission.memPerCpuFloor")
}
