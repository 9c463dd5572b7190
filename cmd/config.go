package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/hubctl/internal/config"
	"github.com/zjrosen/hubctl/internal/flags"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change hubctl configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", configFilePath())
		data, err := yaml.Marshal(viper.AllSettings())
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = out.Write(data)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value, e.g. cache.ttl 10m",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return nil
	},
}

var configFlagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List feature flags and their state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := flags.New(cfg.Flags)
		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return f.FormatJSON(reg.All())
		}
		for _, name := range reg.Names() {
			state := "off"
			if reg.Enabled(name) {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, state)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configFlagsCmd)
	rootCmd.AddCommand(configCmd)
}
