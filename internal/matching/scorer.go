package matching

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/avisri/jobscout/internal/ai"
	"github.com/avisri/jobscout/internal/listings"
	"github.com/avisri/jobscout/internal/profile"
	"github.com/avisri/jobscout/internal/retry"
)

//go:embed single_prompt.md
var singlePrompt string

// defaultCallInterval spaces consecutive backend calls (batch chunks and
// enhancement passes) to stay under provider throughput limits.
const defaultCallInterval = 4 * time.Second

// Scorer turns (posting, candidate) pairs into match results, preferring the
// AI backend and degrading to the lexical heuristic on any unretryable
// failure. Only a dead caller context surfaces as an error.
type Scorer struct {
	gen      ai.Generator
	retryCfg retry.Config
	limiter  *rate.Limiter
	logger   *zap.Logger
}

func NewScorer(gen ai.Generator, retryCfg retry.Config, limiter *rate.Limiter, logger *zap.Logger) *Scorer {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(defaultCallInterval), 1)
		// Spend the initial burst token so the first spaced call waits a
		// full interval instead of passing through immediately.
		limiter.Allow()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		gen:      gen,
		retryCfg: retryCfg,
		limiter:  limiter,
		logger:   logger,
	}
}

// aiMatch is the shape the model is asked to emit. Fields the model omits
// stay zero and are defaulted rather than failing the result.
type aiMatch struct {
	JobID           string    `json:"jobId"`
	MatchScore      float64   `json:"matchScore"`
	Breakdown       Breakdown `json:"breakdown"`
	Strengths       []string  `json:"strengths"`
	Weaknesses      []string  `json:"weaknesses"`
	Recommendations []string  `json:"recommendations"`
	InterviewTips   []string  `json:"interviewTips"`
	Analysis        Analysis  `json:"analysis"`
}

// ScoreOne scores a single posting with one AI call through the retry
// primitive. Every non-cancellation failure mode lands in the heuristic
// fallback, so the returned Result is always fully populated.
func (s *Scorer) ScoreOne(ctx context.Context, posting listings.Posting, candidate profile.Candidate) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	prompt := strings.NewReplacer(
		"{{JOB}}", postingText(posting, 0),
		"{{PROFILE}}", profile.ToText(candidate),
	).Replace(singlePrompt)

	raw, err := retry.Do(ctx, s.retryCfg, func(ctx context.Context) (string, error) {
		return s.gen.GenerateContent(ctx, prompt)
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		s.logger.Warn("ai scoring failed, using heuristic",
			zap.String("job_id", posting.ID),
			zap.Error(err),
		)
		return heuristicScore(posting, candidate), nil
	}

	parsed, err := parseAIMatch(raw)
	if err != nil {
		s.logger.Warn("ai response unparseable, using heuristic",
			zap.String("job_id", posting.ID),
			zap.Error(err),
		)
		return heuristicScore(posting, candidate), nil
	}

	return resultFromAI(posting, parsed), nil
}

func parseAIMatch(raw string) (aiMatch, error) {
	payload, err := ai.ExtractObject(raw)
	if err != nil {
		return aiMatch{}, err
	}

	var m aiMatch
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return aiMatch{}, fmt.Errorf("decode match object: %w", err)
	}
	return m, nil
}

// resultFromAI converts a parsed model response, recomputing the overall
// score from the breakdown so the weighting invariant holds regardless of
// what total the model reported.
func resultFromAI(posting listings.Posting, m aiMatch) Result {
	return Result{
		Posting:         posting,
		Score:           WeightedScore(m.Breakdown),
		Breakdown:       m.Breakdown,
		Strengths:       m.Strengths,
		Weaknesses:      m.Weaknesses,
		Recommendations: m.Recommendations,
		InterviewTips:   m.InterviewTips,
		Analysis:        m.Analysis,
		Source:          SourceAI,
	}
}

// postingText renders a posting for prompt embedding. A positive descLimit
// truncates the description to that many runes.
func postingText(posting listings.Posting, descLimit int) string {
	description := posting.Description
	if descLimit > 0 {
		description = truncateRunes(description, descLimit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", posting.ID)
	fmt.Fprintf(&b, "Title: %s\n", posting.Title)
	fmt.Fprintf(&b, "Company: %s\n", posting.Employer)
	fmt.Fprintf(&b, "Location: %s\n", posting.Location)
	if len(posting.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(posting.Skills, ", "))
	}
	if len(posting.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements: %s\n", strings.Join(posting.Requirements, "; "))
	}
	if posting.ExperienceLevel != "" {
		fmt.Fprintf(&b, "Experience level: %s\n", posting.ExperienceLevel)
	}
	fmt.Fprintf(&b, "Description: %s\n", description)

	return b.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
