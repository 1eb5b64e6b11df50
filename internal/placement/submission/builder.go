package submission

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/placement/internal/common/placementerrors"
	"github.com/armadaproject/placement/internal/common/resource"
	"github.com/armadaproject/placement/internal/placement/configuration"
	"github.com/armadaproject/placement/internal/placement/model"
	"github.com/armadaproject/placement/internal/placement/resourceclass"
)

const (
	DefaultNice     = 100
	DefaultQuickQos = "quick"
)

// Options controls the flags generated on top of the basic resource request.
type Options struct {
	// Bigmem jobs above this get the whole node. Zero disables the exclusive flag.
	ExclusiveMemoryBytes int64
	GpuType              string
	GpuMemoryTier        string
	// Zero disables the per-cpu memory flag for memory intensive classes.
	MemPerCpuFloorBytes int64
	Nice                int
	QuickQos            string
	ClusterOptions      []string
}

func OptionsFromConfig(config configuration.SubmissionConfig) (Options, error) {
	var result *multierror.Error
	options := Options{
		GpuType:        strings.TrimSpace(config.GpuType),
		GpuMemoryTier:  strings.TrimSpace(config.GpuMemoryTier),
		Nice:           config.Nice,
		QuickQos:       strings.TrimSpace(config.QuickQos),
		ClusterOptions: config.ClusterOptions,
	}
	if options.Nice <= 0 {
		options.Nice = DefaultNice
	}
	if options.QuickQos == "" {
		options.QuickQos = DefaultQuickQos
	}
	if config.ExclusiveMemoryThreshold != "" {
		bytes, err := resource.ParseMemory(config.ExclusiveMemoryThreshold)
		if err != nil {
			result = multierror.Append(result, invalid("submission.exclusiveMemoryThreshold", config.ExclusiveMemoryThreshold, err))
		}
		options.ExclusiveMemoryBytes = bytes
	}
	if config.MemPerCpuFloor != "" {
		bytes, err := resource.ParseMemory(config.MemPerCpuFloor)
		if err != nil {
			result = multierror.Append(result, invalid("submission.memPerCpuFloor", config.MemPerCpuFloor, err))
		}
		options.MemPerCpuFloorBytes = bytes
	}
	return options, result.ErrorOrNil()
}

func invalid(field string, value string, err error) error {
	return errors.WithStack(&placementerrors.ErrInvalidArgument{Name: field, Value: value, Message: err.Error()})
}

// Builder translates a placement decision into backend submission options.
// The output depends only on its inputs and is safe to compare across calls.
type Builder struct {
	executor configuration.ExecutorName
	options  Options
}

func NewBuilder(executor configuration.ExecutorName, options Options) Builder {
	return Builder{executor: executor, options: options}
}

// Build returns the submission options for one attempt of a job. Operator supplied options
// (configured cluster options, then extra) always come last and are passed through verbatim.
func (b Builder) Build(class resourceclass.Class, placement model.Placement, request model.ResourceRequest, extra []string) []string {
	var opts []string
	if b.executor == configuration.ExecutorSlurm {
		opts = append(opts, b.resourceFlags(request)...)
		opts = append(opts, b.roleFlags(placement.Role, request)...)
		opts = append(opts, b.classFlags(class, request)...)
	}
	opts = append(opts, b.options.ClusterOptions...)
	opts = append(opts, extra...)
	return opts
}

func (b Builder) resourceFlags(request model.ResourceRequest) []string {
	return []string{
		"--mem=" + slurmMemory(request.MemoryBytes),
		"--ntasks=1",
		fmt.Sprintf("--cpus-per-task=%d", request.Cpus),
	}
}

func (b Builder) roleFlags(role model.Role, request model.ResourceRequest) []string {
	var flags []string
	switch role {
	case model.RoleBigmem:
		if b.options.ExclusiveMemoryBytes > 0 && request.MemoryBytes > b.options.ExclusiveMemoryBytes {
			flags = append(flags, "--exclusive")
		}
		flags = append(flags, "--constraint=bigmem")
	case model.RoleGpu:
		flags = append(flags, b.gres(), "--constraint=gpu")
	case model.RoleQuick:
		flags = append(flags, fmt.Sprintf("--nice=%d", b.options.Nice), "--qos="+b.options.QuickQos)
	}
	return flags
}

func (b Builder) classFlags(class resourceclass.Class, request model.ResourceRequest) []string {
	var flags []string
	if class.IsMemoryIntensive && b.options.MemPerCpuFloorBytes > 0 {
		perCpu := b.options.MemPerCpuFloorBytes
		if request.Cpus > 0 {
			if share := ceilDiv(request.MemoryBytes, int64(request.Cpus)); share > perCpu {
				perCpu = share
			}
		}
		flags = append(flags, "--mem-per-cpu="+slurmMemory(perCpu))
	}
	if class.IsGpu {
		flags = append(flags, "--gpus-per-task=1")
		if b.options.GpuMemoryTier != "" {
			flags = append(flags, "--constraint="+b.options.GpuMemoryTier)
		}
	}
	if class.IsQuick {
		flags = append(flags, "--no-requeue")
	}
	if class.IsHigh {
		flags = append(flags, "--exclusive")
	}
	if class.IsLow {
		flags = append(flags, "--oversubscribe")
	}
	return flags
}

func (b Builder) gres() string {
	if b.options.GpuType != "" {
		return fmt.Sprintf("--gres=gpu:%s:1", b.options.GpuType)
	}
	return "--gres=gpu:1"
}

// slurmMemory renders bytes in the units Slurm expects: whole gigabytes where exact,
// otherwise megabytes rounded up.
func slurmMemory(bytes int64) string {
	if bytes > 0 && bytes%resource.Gibibyte == 0 {
		return fmt.Sprintf("%dG", bytes/resource.Gibibyte)
	}
	return fmt.Sprintf("%dM", ceilDiv(bytes, resource.Mebibyte))
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
