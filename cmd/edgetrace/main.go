package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagConfig string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "edgetrace",
	Short:         "Rank the call edges unique to one of two static call graphs",
	Long:          "Edgetrace compares two static call graphs of the same program and ranks the edges unique to the larger one by how likely they represent reachable but unanalyzed behavior.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text|json")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML file with run defaults")

	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(cypherCmd)
}

// validateFormat rejects anything but the two supported output formats.
func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", format)
	}
	return nil
}
