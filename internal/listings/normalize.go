package listings

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// providerRecord mirrors the shape of one listing in the provider's search
// payload. Fields the provider omits stay zero and get safe defaults during
// normalization.
type providerRecord struct {
	ID      any    `json:"id"`
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Description  string  `json:"description"`
	RedirectURL  string  `json:"redirect_url"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	Created      string  `json:"created"`
	ContractType string  `json:"contract_type"`
	Category     struct {
		Label string `json:"label"`
	} `json:"category"`
}

// decodeProviderRecords converts the loosely typed items from a relay payload
// into typed provider records.
func decodeProviderRecords(items []map[string]any) ([]providerRecord, error) {
	var records []providerRecord

	cfg := &mapstructure.DecoderConfig{
		Result:           &records,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode provider records: %w", err)
	}

	return records, nil
}

// normalizeRecord maps a provider record into a canonical Posting, filling
// missing optional fields with safe defaults. The index disambiguates IDs for
// records the provider returned without one.
func normalizeRecord(rec providerRecord, index int) Posting {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = "Untitled Position"
	}

	employer := strings.TrimSpace(rec.Company.DisplayName)
	if employer == "" {
		employer = "Unknown Company"
	}

	location := strings.TrimSpace(strings.Join(strings.Fields(rec.Location.DisplayName), " "))
	if location == "" {
		location = "Remote"
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

	postedAt := time.Now().UTC()
	if rec.Created != "" {
		if parsed, err := time.Parse(time.RFC3339, rec.Created); err == nil {
			postedAt = parsed
		}
	}

	var skills []string
	if label := strings.TrimSpace(rec.Category.Label); label != "" {
		skills = []string{label}
	}

	return Posting{
		ID:          providerID(rec.ID, index),
		Title:       title,
		Employer:    employer,
		Location:    location,
		Description: rec.Description,
		URL:         rec.RedirectURL,
		Salary:      salary,
		PostedAt:    postedAt,
		Source:      SourceProvider,
		Skills:      skills,
		Type:        rec.ContractType,
	}
}

func providerID(id any, index int) string {
	switch v := id.(type) {
	case string:
		if v != "" {
			return "provider_" + v
		}
	case float64:
		return fmt.Sprintf("provider_%.0f", v)
	case int:
		return fmt.Sprintf("provider_%d", v)
	}
	return fmt.Sprintf("provider_unknown_%d", index)
}
