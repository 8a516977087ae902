// Package commands implements the metacachectl CLI commands.
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "metacachectl",
	Short: "Operate and demonstrate the metacache bounded metadata cache",
	Long: `metacachectl drives pkg/metacache outside of its host driver: it runs
a scripted walkthrough of Add/Borrow/Invalidate against an in-process cache
for sanity-checking a configuration, and it runs a long-lived process that
hosts a cache with a periodic expiry sweep and a Prometheus metrics
endpoint for load testing or local development.

Use "metacachectl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: $XDG_CONFIG_HOME/metacache/config.yaml)")
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("metacachectl %s (commit %s, built %s, %s)\n", Version, Commit, Date, runtime.Version())
	},
}

func GetConfigFile() string {
	return configFile
}
