// Package cli implements the fogsim command-line driver with spf13/cobra.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:   "fogsim",
		Short: "Vehicular fog-computing placement simulator",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML/JSON config file")
	root.AddCommand(newRunCommand())
	return root.Execute()
}
