package listings

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avisri/jobscout/internal/ai"
)

//go:embed synthetic_prompt.md
var syntheticPrompt string

// Synthesizer produces plausible postings with a generative model when the
// real provider is unavailable.
type Synthesizer struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewSynthesizer(gen ai.Generator, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Synthesizer{gen: gen, logger: logger}
}

// syntheticRecord is the shape the model is asked to produce.
type syntheticRecord struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	URL             string   `json:"url"`
	SalaryMin       float64  `json:"salary_min"`
	SalaryMax       float64  `json:"salary_max"`
	Skills          []string `json:"skills"`
	Requirements    []string `json:"requirements"`
	Type            string   `json:"type"`
	ExperienceLevel string   `json:"experience_level"`
}

// Generate asks the model for count postings matching the filters. Records
// missing a title or company are dropped rather than failing the batch.
func (s *Synthesizer) Generate(ctx context.Context, filters SearchFilters, count int) ([]Posting, error) {
	if count <= 0 {
		count = filters.Limit()
	}

	prompt := strings.NewReplacer(
		"{{KEYWORDS}}", filters.Keywords,
		"{{LOCATION}}", filters.Location,
		"{{COUNT}}", strconv.Itoa(count),
	).Replace(syntheticPrompt)

	raw, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesize listings: %w", err)
	}

	payload, err := ai.ExtractArray(raw)
	if err != nil {
		return nil, fmt.Errorf("synthesize listings: %w", err)
	}

	var records []syntheticRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("synthesize listings: %w", err)
	}

	now := time.Now().UTC()
	postings := make([]Posting, 0, len(records))

	for i, rec := range records {
		if strings.TrimSpace(rec.Title) == "" || strings.TrimSpace(rec.Company) == "" {
			s.logger.Debug("dropping incomplete synthetic record", zap.Int("index", i))
			continue
		}

		location := strings.TrimSpace(rec.Location)
		if location == "" {
			location = "Remote"
		}

		jobURL := strings.TrimSpace(rec.URL)
		if jobURL == "" {
			jobURL = syntheticURL(rec.Title, rec.Company, i)
		}

		var salary *SalaryRange
		if rec.SalaryMin > 0 || rec.SalaryMax > 0 {
			salary = &SalaryRange{
				Min:      rec.SalaryMin,
				Max:      rec.SalaryMax,
				Currency: "USD",
				Period:   "yearly",
			}
		}

		postings = append(postings, Posting{
			ID:              "synthetic_" + uuid.NewString(),
			Title:           strings.TrimSpace(rec.Title),
			Employer:        strings.TrimSpace(rec.Company),
			Location:        location,
			Description:     rec.Description,
			URL:             jobURL,
			Salary:          salary,
			PostedAt:        now.AddDate(0, 0, -(i % 30)),
			Source:          SourceSynthetic,
			Skills:          rec.Skills,
			Requirements:    rec.Requirements,
			Type:            rec.Type,
			ExperienceLevel: rec.ExperienceLevel,
		})
	}

	if len(postings) == 0 {
		return nil, fmt.Errorf("synthesize listings: model returned no usable records")
	}

	return postings, nil
}

var syntheticJobBoards = []string{
	"https://www.linkedin.com/jobs/view",
	"https://www.indeed.com/viewjob",
	"https://www.glassdoor.com/job-listing",
}

// syntheticURL builds a plausible job-board URL for records the model emitted
// without one.
func syntheticURL(title, company string, index int) string {
	board := syntheticJobBoards[index%len(syntheticJobBoards)]
	return fmt.Sprintf("%s/%s-at-%s-%d", board, slugify(title), slugify(company), 1000000+index)
}

func slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}
