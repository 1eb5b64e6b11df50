package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/armadaproject/placement/internal/common/placementerrors"
	"github.com/armadaproject/placement/internal/common/resource"
	"github.com/armadaproject/placement/internal/placement"
	"github.com/armadaproject/placement/internal/placement/metrics"
	"github.com/armadaproject/placement/internal/placement/resourceclass"
)

func decideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Prints the placement decision for one attempt of a job",
		Long: `Prints the partition, resources and submission options for one attempt of a job.
The configuration is validated first and nothing is decided if it is invalid.`,
		Example: "placement decide --class process_high --attempt 2 --option=--account=genomics",
		Args:    cobra.NoArgs,
		RunE:    runDecide,
	}
	cmd.Flags().String("class", "", "Resource class of the job, e.g. process_medium")
	cmd.Flags().Int("attempt", 1, "Retry attempt, starting at 1")
	cmd.Flags().String("memory", "", "Explicit memory request, e.g. 64.GB or 64Gi")
	cmd.Flags().String("time", "", "Explicit wall-clock request, e.g. 12.h or 1d")
	cmd.Flags().Int("cpus", 0, "Explicit cpu request")
	cmd.Flags().StringArray("option", []string{}, "Extra submission option passed through verbatim (repeatable)")
	cmd.Flags().String("metrics-file", "", "Write decision metrics to this file in the prometheus text format, e.g. for the node exporter textfile collector")
	if err := cmd.MarkFlagRequired("class"); err != nil {
		panic(err)
	}
	addOutputFlag(cmd)
	return cmd
}

func runDecide(cmd *cobra.Command, _ []string) error {
	job, err := jobFromFlags(cmd)
	if err != nil {
		return err
	}
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	metricsFile, err := cmd.Flags().GetString("metrics-file")
	if err != nil {
		return errors.WithStack(err)
	}

	// Each invocation gets its own registry; it is only exposed through --metrics-file.
	registry := prometheus.NewRegistry()
	engine, report, err := placement.Start(config, placement.WithMetrics(metrics.New(metrics.MetricPrefix, registry)))
	if err != nil {
		if placementerrors.IsConfigurationError(err) {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), report.Summary())
		}
		return err
	}
	if err := printOutput(cmd, engine.Decide(job)); err != nil {
		return err
	}
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			return errors.Wrapf(err, "cannot write metrics to %s", metricsFile)
		}
	}
	return nil
}

func jobFromFlags(cmd *cobra.Command) (placement.Job, error) {
	flags := cmd.Flags()
	class, err := flags.GetString("class")
	if err != nil {
		return placement.Job{}, errors.WithStack(err)
	}
	attempt, err := flags.GetInt("attempt")
	if err != nil {
		return placement.Job{}, errors.WithStack(err)
	}
	if attempt < 1 {
		return placement.Job{}, errors.WithStack(&placementerrors.ErrInvalidArgument{
			Name: "attempt", Value: fmt.Sprint(attempt), Message: "attempts start at 1",
		})
	}
	cpus, err := flags.GetInt("cpus")
	if err != nil {
		return placement.Job{}, errors.WithStack(err)
	}
	options, err := flags.GetStringArray("option")
	if err != nil {
		return placement.Job{}, errors.WithStack(err)
	}
	job := placement.Job{
		Class:        resourceclass.Parse(class),
		Attempt:      attempt,
		Cpus:         cpus,
		ExtraOptions: options,
	}

	if memory, _ := flags.GetString("memory"); memory != "" {
		job.Memory, err = resource.ParseMemory(memory)
		if err != nil {
			return placement.Job{}, errors.WithStack(&placementerrors.ErrInvalidArgument{Name: "memory", Value: memory, Message: err.Error()})
		}
	}
	if wallClock, _ := flags.GetString("time"); wallClock != "" {
		job.WallClock, err = resource.ParseDuration(wallClock)
		if err != nil {
			return placement.Job{}, errors.WithStack(&placementerrors.ErrInvalidArgument{Name: "time", Value: wallClock, Message: err.Error()})
		}
	}
	return job, nil
}
