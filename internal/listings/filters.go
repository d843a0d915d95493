package listings

import (
	"errors"
	"strings"
)

// DateBucket selects how far back postings may have been published.
type DateBucket string

const (
	DateToday DateBucket = "today"
	DateWeek  DateBucket = "week"
	DateMonth DateBucket = "month"
	DateAll   DateBucket = "all"
)

// DaysBack converts the bucket into the provider's days-back query value.
// Zero means no date constraint.
func (b DateBucket) DaysBack() int {
	switch b {
	case DateToday:
		return 1
	case DateWeek:
		return 7
	case DateMonth:
		return 30
	default:
		return 0
	}
}

// DefaultMaxResults caps a search when the caller does not specify a limit.
const DefaultMaxResults = 20

// SearchFilters describes one acquisition request. Immutable per call.
type SearchFilters struct {
	Keywords   string     `json:"keywords" mapstructure:"keywords"`
	Location   string     `json:"location,omitempty" mapstructure:"location"`
	SalaryMin  float64    `json:"salaryMin,omitempty" mapstructure:"salary-min"`
	SalaryMax  float64    `json:"salaryMax,omitempty" mapstructure:"salary-max"`
	DatePosted DateBucket `json:"datePosted,omitempty" mapstructure:"date-posted"`
	MaxResults int        `json:"maxResults,omitempty" mapstructure:"max-results"`
}

// Validate rejects malformed input before any network activity begins.
func (f SearchFilters) Validate() error {
	if strings.TrimSpace(f.Keywords) == "" {
		return errors.New("search keywords are required")
	}
	return nil
}

// Limit returns the effective result cap.
func (f SearchFilters) Limit() int {
	if f.MaxResults > 0 {
		return f.MaxResults
	}
	return DefaultMaxResults
}
