package listings

import (
	"sort"
	"strings"
	"time"
)

// Provenance records which acquisition tier produced a posting.
type Provenance string

const (
	SourceProvider  Provenance = "provider"
	SourceSynthetic Provenance = "synthetic"
	SourceSeed      Provenance = "seed"
)

// SalaryRange is the advertised compensation for a posting, when known.
type SalaryRange struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Period   string  `json:"period,omitempty"`
}

// Posting is the canonical job listing record. Postings are created fresh per
// acquisition call and never mutated after construction.
type Posting struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Employer        string       `json:"employer"`
	Location        string       `json:"location"`
	Description     string       `json:"description"`
	URL             string       `json:"url"`
	Salary          *SalaryRange `json:"salary,omitempty"`
	PostedAt        time.Time    `json:"postedAt"`
	Source          Provenance   `json:"source"`
	Skills          []string     `json:"skills,omitempty"`
	Requirements    []string     `json:"requirements,omitempty"`
	Type            string       `json:"type,omitempty"`
	ExperienceLevel string       `json:"experienceLevel,omitempty"`
}

// dedupKey identifies a posting for deduplication purposes.
func dedupKey(p Posting) string {
	return strings.ToLower(strings.TrimSpace(p.Title)) + "|" + strings.ToLower(strings.TrimSpace(p.Employer))
}

// Dedup retains the first occurrence per lowercase (title, employer) key,
// preserving input order. Providers are queried in priority order, so earlier
// entries win.
func Dedup(postings []Posting) []Posting {
	seen := make(map[string]struct{}, len(postings))
	result := make([]Posting, 0, len(postings))

	for _, p := range postings {
		key := dedupKey(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}

	return result
}

// SortByPostedDesc orders postings newest first, keeping insertion order for
// equal timestamps.
func SortByPostedDesc(postings []Posting) {
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].PostedAt.After(postings[j].PostedAt)
	})
}
