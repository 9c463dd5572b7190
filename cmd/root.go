package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hubctl/internal/config"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/presentation"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race with the input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".hubctl/config.yaml"

var (
	version      = "dev"
	cfgFile      string
	outputFormat string
	debug        bool
	cfg          config.Config
	closeLog     func()
)

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "A terminal portal for the cell image Hub",
	Long: `hubctl browses and manages organizations, images and versions on a cell
image Hub. Version pages show the dependency graph extracted from the cell
metadata; "hubctl browse" opens it interactively.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(*cobra.Command, []string) {
		if closeLog != nil {
			closeLog()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/hubctl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(presentation.FormatTable),
		"output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write debug logs to hubctl.log (or $HUBCTL_LOG)")
	rootCmd.PersistentFlags().String("portal-url", "", "portal url serving /config")
	rootCmd.PersistentFlags().String("hub-api-url", "", "override the Hub API url of the portal config")

	_ = viper.BindPFlag("portal_url", rootCmd.PersistentFlags().Lookup("portal-url"))
	_ = viper.BindPFlag("hub_api_url", rootCmd.PersistentFlags().Lookup("hub-api-url"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("portal_url", defaults.PortalURL)
	viper.SetDefault("session_db", defaults.SessionDB)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .hubctl/config.yaml (current directory)
		// 2. ~/.config/hubctl/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "hubctl"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			defaultPath := userConfigPath()
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return localConfigPath
	}
	return filepath.Join(home, ".config", "hubctl", "config.yaml")
}

// configFilePath returns the config file in use, or where one would be written.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return userConfigPath()
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	if !debug && os.Getenv("HUBCTL_DEBUG") == "" {
		return nil
	}
	path := os.Getenv("HUBCTL_LOG")
	if path == "" {
		path = "hubctl.log"
	}
	var err error
	if cmd.Name() == browseCmd.Name() {
		closeLog, err = log.InitWithTeaLog(path, "hubctl")
	} else {
		closeLog, err = log.Init(path)
	}
	if err != nil {
		return fmt.Errorf("initializing log: %w", err)
	}
	log.Info(log.CatConfig, "hubctl starting", "version", version, "config", viper.ConfigFileUsed())
	return nil
}

// formatter returns the output formatter selected by --output.
func formatter(w io.Writer) (*presentation.Formatter, error) {
	format, err := presentation.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return presentation.NewFormatter(w, format), nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func jsonOutput() bool {
	format, err := presentation.ParseFormat(outputFormat)
	return err == nil && format == presentation.FormatJSON
}
