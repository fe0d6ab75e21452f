package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"gota/business/ranking"
	"gota/domain"
	"gota/pkg/logger"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rankFlags struct {
	input   string
	weights string
	lat     float64
	lon     float64
	viewed  []uint
	now     string
	limit   int
	asJSON  bool
}

func newRankCmd() *cobra.Command {
	var f rankFlags

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank cafe candidates from a JSON file",
		Long: `Rank reads a JSON array of cafe candidates and prints them best first.
Pass --lat and --lon together to enable the proximity boost, and --viewed to
apply the view diversity stage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "candidates JSON file (- for stdin)")
	cmd.Flags().StringVar(&f.weights, "weights", "", "weights override file")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "requester latitude")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "requester longitude")
	cmd.Flags().UintSliceVar(&f.viewed, "viewed", nil, "recently viewed cafe ids, oldest first")
	cmd.Flags().StringVar(&f.now, "now", "", "reference time for the recency window (RFC3339)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "print at most n cafes")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runRank(cmd *cobra.Command, f rankFlags) error {
	candidates, err := readCandidates(cmd.InOrStdin(), f.input)
	if err != nil {
		return err
	}

	weights, err := loadWeights(f.weights)
	if err != nil {
		return err
	}

	opts := ranking.ScoreOptions{}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		opts.UserLat, opts.UserLon = &f.lat, &f.lon
	}
	if cmd.Flags().Changed("viewed") {
		opts.RecentlyViewed = make([]uint64, 0, len(f.viewed))
		for _, id := range f.viewed {
			opts.RecentlyViewed = append(opts.RecentlyViewed, uint64(id))
		}
	}
	if f.now != "" {
		opts.Now, err = time.Parse(time.RFC3339, f.now)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
	}

	ranked := ranking.NewScorer(weights).Rank(candidates, opts)
	if f.limit > 0 && len(ranked) > f.limit {
		ranked = ranked[:f.limit]
	}

	logger.Debug("ranked candidates", "input", f.input, "count", len(ranked))

	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}
	return printTable(cmd.OutOrStdout(), ranked)
}

func readCandidates(stdin io.Reader, path string) ([]domain.CafeCandidate, error) {
	var r io.Reader = stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		r = file
	}

	var candidates []domain.CafeCandidate
	if err := json.NewDecoder(r).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}

	return candidates, nil
}

// loadWeights applies a weights file over the defaults. Keys match the
// ranking_weights columns; missing keys keep the default.
func loadWeights(path string) (ranking.Weights, error) {
	defaults := ranking.DefaultWeights()
	if path == "" {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return ranking.Weights{}, fmt.Errorf("failed to read weights file: %w", err)
	}

	stored := defaults.Stored("cli")
	floats := map[string]*float64{
		"rating_weight":   &stored.RatingWeight,
		"review_weight":   &stored.ReviewWeight,
		"favorite_weight": &stored.FavoriteWeight,
		"photo_weight":    &stored.PhotoWeight,
		"amenity_weight":  &stored.AmenityWeight,
		"recency_cap":     &stored.RecencyCap,
		"featured_factor": &stored.FeaturedFactor,
		"premium_factor":  &stored.PremiumFactor,
		"seen_penalty":    &stored.SeenPenalty,
		"fresh_bonus":     &stored.FreshBonus,
		"proximity_cap":   &stored.ProximityCap,
		"affinity_cap":    &stored.AffinityCap,
	}
	for key, p := range floats {
		v.SetDefault(key, *p)
		*p = v.GetFloat64(key)
	}

	ints := map[string]*int{
		"review_cap":   &stored.ReviewCap,
		"favorite_cap": &stored.FavoriteCap,
	}
	for key, p := range ints {
		v.SetDefault(key, *p)
		*p = v.GetInt(key)
	}

	w := defaults.WithOverrides(stored)
	if err := w.Validate(); err != nil {
		return ranking.Weights{}, fmt.Errorf("invalid weights file: %w", err)
	}

	return w, nil
}

func printTable(out io.Writer, ranked []domain.RankedCafe) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tZONE\tSCORE\tKM")
	for i, r := range ranked {
		km := "-"
		if r.DistanceKm != nil {
			km = fmt.Sprintf("%.2f", *r.DistanceKm)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.2f\t%s\n", i+1, r.Cafe.ID, r.Cafe.Name, r.Cafe.Location, r.Score, km)
	}
	return tw.Flush()
}
