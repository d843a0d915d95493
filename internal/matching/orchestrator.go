package matching

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/avisri/jobscout/internal/listings"
	"github.com/avisri/jobscout/internal/profile"
)

const (
	// DefaultThreshold is the minimum score a result needs to be returned.
	DefaultThreshold = 50
	// enhanceTopN bounds the per-item AI calls spent in the secondary
	// fallback tier.
	enhanceTopN = 5
)

// Orchestrator is the matching entry point: it routes between single and
// batch scoring, applies the secondary fallback tier when the backend is
// fully unreachable, and filters and ranks the results.
type Orchestrator struct {
	scorer    *Scorer
	threshold int
	logger    *zap.Logger
}

func NewOrchestrator(scorer *Scorer, threshold int, logger *zap.Logger) *Orchestrator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{scorer: scorer, threshold: threshold, logger: logger}
}

// MatchAll scores every posting against the candidate and returns results at
// or above the threshold, ordered by score descending. It fails only when
// the caller's context dies; every backend failure mode degrades to
// heuristic-sourced results instead.
func (o *Orchestrator) MatchAll(ctx context.Context, postings []listings.Posting, candidate profile.Candidate) ([]Result, error) {
	if len(postings) == 0 {
		return []Result{}, nil
	}

	var results []Result

	if len(postings) == 1 {
		result, err := o.scorer.ScoreOne(ctx, postings[0], candidate)
		if err != nil {
			return nil, err
		}
		results = []Result{result}
	} else {
		var err error
		results, err = o.scorer.scoreMany(ctx, postings, candidate)
		if errors.Is(err, errBackendUnavailable) {
			o.logger.Warn("batch scoring unavailable, entering secondary fallback tier")
			results, err = o.secondaryTier(ctx, postings, candidate)
		}
		if err != nil {
			return nil, err
		}
	}

	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Score >= o.threshold {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	o.logger.Info("matching complete",
		zap.Int("scored", len(results)),
		zap.Int("above_threshold", len(filtered)),
	)

	return filtered, nil
}

// secondaryTier scores everything heuristically, then spends limiter-spaced
// AI calls enhancing only the top few candidates to conserve quota.
func (o *Orchestrator) secondaryTier(ctx context.Context, postings []listings.Posting, candidate profile.Candidate) ([]Result, error) {
	results := make([]Result, 0, len(postings))
	for _, p := range postings {
		results = append(results, heuristicScore(p, candidate))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	limit := enhanceTopN
	if limit > len(results) {
		limit = len(results)
	}

	for i := 0; i < limit; i++ {
		if i > 0 {
			if err := o.scorer.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		enhanced, err := o.scorer.ScoreOne(ctx, results[i].Posting, candidate)
		if err != nil {
			return nil, err
		}
		results[i] = enhanced
	}

	return results, nil
}
