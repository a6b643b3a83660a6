// Package cmd provides the command-line interface for deckgen with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with
//	clear precedence:
//	1. Command-line flags (--config, --output, etc.) - highest priority
//	2. DECKGEN_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (DECKGEN_TEMPLATE_ARCHIVE, etc.)
//	4. Configuration files (.deckgen.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/deckgen/internal/config"
	"github.com/conneroisu/deckgen/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "Scaffold self-contained HTML slide-deck projects",
	Long: `Deckgen scaffolds a self-contained slide-deck project from a declarative
structure grammar and a packaged template archive, then finalizes it for
distribution by consolidating ad-hoc styling and stripping build artifacts.

Quick Start:
  deckgen new --title "My Talk"      Create a deck with five slides
  deckgen new --structure 1,d,3,1    Title, divider, a 3-slide stack, one more
  deckgen finalize decks/deck-xyz    Consolidate styling, strip artifacts
  deckgen structure 1,d,3,1          Inspect a structure expression

Structure Grammar:
  A comma-separated token list: "d" inserts a section divider, a positive
  integer n inserts a single slide (n = 1) or a vertical stack of n slides.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .deckgen.yml, can also use DECKGEN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. DECKGEN_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .deckgen.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DECKGEN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".deckgen")
	}

	// Enable automatic environment variable binding with DECKGEN_ prefix,
	// e.g. DECKGEN_TEMPLATE_ARCHIVE, DECKGEN_OUTPUT_DIR.
	viper.SetEnvPrefix("DECKGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files degrade to defaults without failing.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the structured logger from the loaded configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}
