package gesture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Match is one ranked candidate.
type Match struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"` // 0-100, higher is better
	Distance   float64 `json:"distance"`
}

// Matcher ranks candidate profiles against a query.
type Matcher struct {
	comparator *Comparator
	workers    int
	logger     *slog.Logger
}

// NewMatcher creates a Matcher that evaluates up to workers candidates at
// once. Non-positive workers selects GOMAXPROCS.
func NewMatcher(c *Comparator, workers int, logger *slog.Logger) *Matcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{comparator: c, workers: workers, logger: logger}
}

// Rank scores every candidate sharing the query's handedness and returns
// the best topK by similarity, highest first. topK <= 0 returns all.
//
// An invalid query fails before any comparison. Invalid candidates and
// candidates that cannot be compared are logged and skipped. Only context
// cancellation aborts the batch. The result is never nil.
func (m *Matcher) Rank(ctx context.Context, query *Profile, candidates []*Profile, topK int) ([]Match, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	dists := make([]float64, len(candidates))
	scored := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, cand := range candidates {
		if cand == nil || cand.OneHanded != query.OneHanded {
			continue
		}
		g.Go(func() error {
			if err := cand.Validate(); err != nil {
				m.logger.Warn("skipping invalid candidate", "candidate", cand.ID, "error", err)
				return nil
			}
			d, err := m.comparator.Distance(gctx, query, cand)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				m.logger.Warn("skipping candidate", "candidate", cand.ID, "error", err)
				return nil
			}
			if math.IsNaN(d) || math.IsInf(d, 0) {
				m.logger.Warn("skipping candidate with non-finite distance", "candidate", cand.ID)
				return nil
			}
			dists[i], scored[i] = d, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var survivors []*Profile
	var sd []float64
	for i, ok := range scored {
		if ok {
			survivors = append(survivors, candidates[i])
			sd = append(sd, dists[i])
		}
	}

	matches := make([]Match, 0, len(survivors))
	for i, sim := range Similarities(sd) {
		matches = append(matches, Match{
			ID:         survivors[i].ID,
			Name:       survivors[i].Name,
			Similarity: sim,
			Distance:   sd[i],
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Similarities min-max normalizes distances into percentages: the closest
// gets 100 and the farthest 0. If all distances are equal every entry gets
// 100.
func Similarities(dists []float64) []float64 {
	out := make([]float64, len(dists))
	if len(dists) == 0 {
		return out
	}

	lo, hi := floats.Min(dists), floats.Max(dists)
	for i, d := range dists {
		if hi > lo {
			out[i] = (1 - (d-lo)/(hi-lo)) * 100
		} else {
			out[i] = 100
		}
	}
	return out
}
