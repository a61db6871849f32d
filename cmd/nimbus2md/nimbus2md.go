package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/julien-sobczak/nimbus2md/internal/core"
)

var verboseInfo bool
var verboseDebug bool
var verboseTrace bool

var parallel int
var configPath string
var envFile string
var silent bool

var settings *core.Settings
var logger = core.NewLogger()

var rootCmd = &cobra.Command{
	Use:           "nimbus2md",
	Short:         "nimbus2md converts Nimbus Note exports to Markdown",
	Long:          `Convert Nimbus Note export archives into a tree of Markdown or HTML documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Enable verbose output. The most verbose level wins when multiple flags are passsed.
		if verboseInfo {
			logger.SetVerboseLevel(core.VerboseInfo)
		}
		if verboseDebug {
			logger.SetVerboseLevel(core.VerboseDebug)
		}
		if verboseTrace {
			logger.SetVerboseLevel(core.VerboseTrace)
		}

		if envFile != "" {
			// Variables are expanded when reading the settings file
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("unable to load %s: %w", envFile, err)
			}
		}

		var err error
		settings, err = loadSettings(configPath)
		if err != nil {
			return err
		}
		if parallel > 0 {
			settings.Parallel = parallel
		}
		return nil
	},
}

func init() {
	// Use PersistentFlags to make flags accessible to sub-commands
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "v", "", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVarP(&verboseDebug, "vv", "", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&verboseTrace, "vvv", "", false, "enable verbose trace output")
	rootCmd.PersistentFlags().IntVarP(&parallel, "parallel", "t", 0, "Number of notes processed concurrently")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings file (TOML or YAML)")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "", "", "File of environment variables loaded before the settings")
	rootCmd.PersistentFlags().BoolVarP(&silent, "silent", "s", false, "Do not print progress and report")
}

func loadSettings(path string) (*core.Settings, error) {
	if path == "" {
		return core.NewSettings(), nil
	}
	return core.ReadSettingsFromFile(path)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
