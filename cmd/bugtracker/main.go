// Command bugtracker runs the bug tracker HTTP service, applies its
// database migrations and hosts the terminal client.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/bugtracker/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "bugtracker",
		Short:         "Bug tracker service and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "",
		"path to the YAML config file (default: $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(
		newServeCmd(&flags),
		newMigrateCmd(&flags),
		newTUICmd(&flags),
		newVersionCmd(),
	)
	return root
}

func (f *globalFlags) load() (*config.Config, error) {
	if f.configPath != "" {
		return config.LoadFrom(f.configPath)
	}
	return config.Load()
}
