package cmd

import (
	"fmt"
	"strconv"

	"gota/business/ranking"

	"github.com/spf13/cobra"
)

func newDistanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance lat1 lon1 lat2 lon2",
		Short: "Print the great-circle distance between two points in km",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]float64, 0, 4)
			for _, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q: %w", a, err)
				}
				coords = append(coords, v)
			}

			km := ranking.Distance(coords[0], coords[1], coords[2], coords[3])
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f km\n", km)
			return nil
		},
	}
}
