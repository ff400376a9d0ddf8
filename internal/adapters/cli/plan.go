package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	var inputPath string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip from a JSON input file",
		Long: `Read a trip request from a JSON file (or stdin when --input is omitted),
run the full planning pipeline and print the resulting itinerary as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := BuildContainer(configPath, false)
			if err != nil {
				return err
			}
			defer c.Close()

			var reader io.Reader = cmd.InOrStdin()
			if inputPath != "" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				reader = f
			}

			var in trip.TripInput
			if err := json.NewDecoder(reader).Decode(&in); err != nil {
				return fmt.Errorf("failed to decode trip input: %w", err)
			}

			ctx := common.WithLogger(cmd.Context(), c.Logger)
			out, err := c.Service.PlanTrip(ctx, &in)
			if err != nil {
				return fmt.Errorf("planning failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to trip input JSON (default: stdin)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")

	return cmd
}
