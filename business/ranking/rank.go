package ranking

import (
	"sort"

	"gota/domain"
)

// Rank scores every candidate and orders them by score descending, lowest id
// first on ties. candidates is not modified.
func (s *Scorer) Rank(candidates []domain.CafeCandidate, opts ScoreOptions) []domain.RankedCafe {
	if len(candidates) == 0 {
		return []domain.RankedCafe{}
	}

	// pin the clock so every candidate shares the same recency window
	opts.Now = opts.now()

	ranked := make([]domain.RankedCafe, 0, len(candidates))
	for _, c := range candidates {
		b, dist, hasDist := s.explain(c, opts)

		rc := domain.RankedCafe{
			Cafe:  c,
			Score: b.FinalScore,
		}
		if hasDist {
			d := dist
			rc.DistanceKm = &d
		}
		ranked = append(ranked, rc)

		ScoredCandidatesTotal.WithLabelValues(c.Visibility.String()).Inc()
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Cafe.ID < ranked[j].Cafe.ID
	})

	return ranked
}
