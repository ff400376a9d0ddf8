package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tripweaver",
		Short: "Tripweaver - multi-day itinerary planning engine",
		Long: `Tripweaver turns a set of places into a day-by-day itinerary: it groups
nearby places into zones, assigns zones to days, orders each day's visits,
prices every hop through the routing providers and trims days that blow
their time budget.

Examples:
  tripweaver plan --input trip.json
  tripweaver plan --input trip.json --pretty
  cat trip.json | tripweaver plan
  tripweaver serve --config config.yaml`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/tripweaver)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
