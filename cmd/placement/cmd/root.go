package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/armadaproject/placement/internal/common"
	"github.com/armadaproject/placement/internal/placement/configuration"
)

const (
	CustomConfigLocation string = "config"
	DefaultConfigPath    string = "./config/placement"
)

const (
	outputText = "text"
	outputJson = "json"
	outputYaml = "yaml"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "placement",
		SilenceUsage: true,
		Short:        "Decides resources, partitions and submission options for pipeline jobs",
	}

	cmd.PersistentFlags().StringSlice(
		CustomConfigLocation,
		[]string{},
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)")

	cmd.AddCommand(
		validateCmd(),
		decideCmd(),
	)

	return cmd
}

func loadConfig(cmd *cobra.Command) (configuration.Configuration, error) {
	var config configuration.Configuration
	userSpecifiedConfigs, err := cmd.Flags().GetStringSlice(CustomConfigLocation)
	if err != nil {
		return config, errors.WithStack(err)
	}
	if err := common.LoadConfig(&config, DefaultConfigPath, userSpecifiedConfigs); err != nil {
		return config, err
	}
	if err := common.ConfigureLogLevel(config.LogLevel); err != nil {
		return config, errors.WithMessage(err, "invalid logLevel")
	}
	return config, nil
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputText, "Output format, one of text, json or yaml")
}

// printable is anything that can be rendered in every --output format.
type printable interface {
	Summary() string
	JSON() ([]byte, error)
	YAML() ([]byte, error)
}

func printOutput(cmd *cobra.Command, v printable) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return errors.WithStack(err)
	}
	var out []byte
	switch format {
	case outputText:
		out = []byte(v.Summary())
	case outputJson:
		out, err = v.JSON()
		out = append(out, '\n')
	case outputYaml:
		out, err = v.YAML()
	default:
		return errors.Errorf("unknown output format %q; must be one of [%s %s %s]", format, outputText, outputJson, outputYaml)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
	return errors.WithStack(err)
}
