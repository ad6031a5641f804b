// Package cmd provides the command-line interface for procsim.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "procsim simulates an out-of-order superscalar processor pipeline.",
	Long: `procsim replays an instruction trace through a Tomasulo-style ` +
		`out-of-order pipeline model and reports retirement statistics.`,
}

func init() {
	// A .env file is optional; a lab environment can pin default processor
	// parameters (PROCSIM_R, PROCSIM_K0, PROCSIM_K1, PROCSIM_K2, PROCSIM_F,
	// PROCSIM_TRACE) without repeating flags on every invocation.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "procsim: could not load .env: %v\n", err)
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
