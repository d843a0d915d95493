package matching

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/avisri/jobscout/internal/ai"
	"github.com/avisri/jobscout/internal/listings"
	"github.com/avisri/jobscout/internal/profile"
	"github.com/avisri/jobscout/internal/retry"
)

//go:embed batch_prompt.md
var batchPrompt string

const (
	// batchChunkSize bounds postings per completion call to respect backend
	// context limits.
	batchChunkSize = 15
	// Prompt-size caps, in runes.
	maxDescriptionRunes = 500
	maxProfileRunes     = 2000
)

// errBackendUnavailable reports that every batch chunk call failed, letting
// the orchestrator switch to the secondary fallback tier.
var errBackendUnavailable = errors.New("scoring backend unavailable")

// scoreMany scores postings in chunks, one completion call per chunk, with
// limiter-spaced calls between chunks. A failed chunk degrades to heuristic
// scores for its postings; only a dead context or a fully failed batch
// surface as errors.
func (s *Scorer) scoreMany(ctx context.Context, postings []listings.Posting, candidate profile.Candidate) ([]Result, error) {
	profileText := truncateRunes(profile.ToText(candidate), maxProfileRunes)

	results := make([]Result, 0, len(postings))
	chunks, failed := 0, 0

	for start := 0; start < len(postings); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(postings) {
			end = len(postings)
		}
		chunk := postings[start:end]
		chunks++

		if start > 0 {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		chunkResults, err := s.scoreChunk(ctx, chunk, candidate, profileText)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("batch chunk failed, scoring chunk heuristically",
				zap.Int("chunk_start", start),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			failed++
			for _, p := range chunk {
				results = append(results, heuristicScore(p, candidate))
			}
			continue
		}

		results = append(results, chunkResults...)
	}

	if chunks > 0 && failed == chunks {
		return nil, errBackendUnavailable
	}

	return results, nil
}

// scoreChunk issues one completion call for a chunk and aligns the parsed
// items back to their postings: by array position first, then by an echoed
// jobId for any leftover items, heuristic for slots still unfilled.
func (s *Scorer) scoreChunk(ctx context.Context, chunk []listings.Posting, candidate profile.Candidate, profileText string) ([]Result, error) {
	var jobs strings.Builder
	for i, posting := range chunk {
		fmt.Fprintf(&jobs, "--- Posting %d ---\n%s\n", i+1, postingText(posting, maxDescriptionRunes))
	}

	prompt := strings.NewReplacer(
		"{{PROFILE}}", profileText,
		"{{JOBS}}", jobs.String(),
	).Replace(batchPrompt)

	raw, err := retry.Do(ctx, s.retryCfg, func(ctx context.Context) (string, error) {
		return s.gen.GenerateContent(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}

	parsed, err := parseAIMatches(raw)
	if err != nil {
		return nil, err
	}

	return alignChunk(chunk, candidate, parsed), nil
}

func parseAIMatches(raw string) ([]aiMatch, error) {
	payload, err := ai.ExtractArray(raw)
	if err != nil {
		return nil, err
	}

	var matches []aiMatch
	if err := json.Unmarshal([]byte(payload), &matches); err != nil {
		return nil, fmt.Errorf("decode match array: %w", err)
	}
	return matches, nil
}

func alignChunk(chunk []listings.Posting, candidate profile.Candidate, parsed []aiMatch) []Result {
	results := make([]Result, len(chunk))
	filled := make([]bool, len(chunk))

	position := make(map[string]int, len(chunk))
	for i, posting := range chunk {
		position[posting.ID] = i
	}

	var extras []aiMatch
	for i, m := range parsed {
		if i < len(chunk) {
			results[i] = resultFromAI(chunk[i], m)
			filled[i] = true
		} else {
			extras = append(extras, m)
		}
	}

	for _, m := range extras {
		if pos, ok := position[m.JobID]; ok && !filled[pos] {
			results[pos] = resultFromAI(chunk[pos], m)
			filled[pos] = true
		}
	}

	for i := range chunk {
		if !filled[i] {
			results[i] = heuristicScore(chunk[i], candidate)
		}
	}

	return results
}
