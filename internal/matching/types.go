package matching

import (
	"math"

	"github.com/avisri/jobscout/internal/listings"
)

// ScoreSource records whether a result came from the AI backend or the local
// lexical fallback.
type ScoreSource string

const (
	SourceAI        ScoreSource = "ai"
	SourceHeuristic ScoreSource = "heuristic"
)

// Scoring weights. Sub-scores are 0-100; the overall score is their weighted
// combination, so heuristic and AI results stay comparable.
const (
	weightSkills     = 0.4
	weightExperience = 0.3
	weightEducation  = 0.1
	weightKeywords   = 0.2
)

// CategoryScore is one weighted dimension of a match, with the evidence that
// produced it.
type CategoryScore struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// EducationScore covers the education dimension, which carries a prose detail
// instead of matched/missing term lists.
type EducationScore struct {
	Score   int    `json:"score"`
	Matched bool   `json:"matched"`
	Details string `json:"details,omitempty"`
}

// Breakdown holds the per-dimension sub-scores behind an overall match score.
type Breakdown struct {
	Skills     CategoryScore  `json:"skills"`
	Experience CategoryScore  `json:"experience"`
	Education  EducationScore `json:"education"`
	Keywords   CategoryScore  `json:"keywords"`
}

// Analysis is the qualitative companion to the numeric breakdown.
type Analysis struct {
	OverallFit            string   `json:"overallFit,omitempty"`
	WhyGoodMatch          []string `json:"whyGoodMatch,omitempty"`
	PotentialConcerns     []string `json:"potentialConcerns,omitempty"`
	SuggestedImprovements []string `json:"suggestedImprovements,omitempty"`
}

// Result is one scored (posting, candidate) pair.
type Result struct {
	Posting         listings.Posting `json:"posting"`
	Score           int              `json:"matchScore"`
	Breakdown       Breakdown        `json:"breakdown"`
	Strengths       []string         `json:"strengths,omitempty"`
	Weaknesses      []string         `json:"weaknesses,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
	InterviewTips   []string         `json:"interviewTips,omitempty"`
	Analysis        Analysis         `json:"analysis"`
	Source          ScoreSource      `json:"source"`
}

// WeightedScore combines the breakdown sub-scores with the fixed
// 40/30/10/20 rubric. Every Result.Score is recomputed through this, even
// when the model reports its own total.
func WeightedScore(b Breakdown) int {
	total := weightSkills*float64(b.Skills.Score) +
		weightExperience*float64(b.Experience.Score) +
		weightEducation*float64(b.Education.Score) +
		weightKeywords*float64(b.Keywords.Score)

	score := int(math.Round(total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
