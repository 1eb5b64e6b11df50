package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/placement/internal/placement/validation"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Checks the configuration for consistency and exits non-zero if it is invalid",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	addOutputFlag(cmd)
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	report := validation.Validate(config)
	if err := printOutput(cmd, report); err != nil {
		return err
	}
	return report.Err()
}
