package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/avisri/jobscout/internal/relay"
)

const (
	defaultProviderURL     = "https://api.adzuna.com/v1/api/jobs"
	defaultProviderCountry = "us"
)

// ProviderClient fetches listings from the remote provider through the relay
// chain, since the provider rejects direct browser-origin requests.
type ProviderClient struct {
	appID   string
	appKey  string
	country string
	relay   *relay.Client
	logger  *zap.Logger

	// BaseURL is overridable for tests.
	BaseURL string
}

func NewProviderClient(appID, appKey, country string, relayClient *relay.Client, logger *zap.Logger) *ProviderClient {
	if country == "" {
		country = defaultProviderCountry
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProviderClient{
		appID:   appID,
		appKey:  appKey,
		country: country,
		relay:   relayClient,
		logger:  logger,
		BaseURL: defaultProviderURL,
	}
}

// Configured reports whether provider credentials are present.
func (p *ProviderClient) Configured() bool {
	return p != nil && p.appID != "" && p.appKey != ""
}

// Fetch queries the provider for postings matching the filters, returning
// normalized and deduplicated results.
func (p *ProviderClient) Fetch(ctx context.Context, filters SearchFilters) ([]Posting, error) {
	target := p.buildURL(filters)

	payload, err := p.relay.Fetch(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("provider fetch: %w", err)
	}

	items, err := resultItems(payload)
	if err != nil {
		return nil, err
	}

	records, err := decodeProviderRecords(items)
	if err != nil {
		return nil, err
	}

	postings := make([]Posting, 0, len(records))
	for i, rec := range records {
		postings = append(postings, normalizeRecord(rec, i))
	}

	p.logger.Debug("provider returned postings",
		zap.Int("raw", len(items)),
		zap.Int("normalized", len(postings)),
	)

	return Dedup(postings), nil
}

func (p *ProviderClient) buildURL(filters SearchFilters) string {
	q := url.Values{}
	q.Set("app_id", p.appID)
	q.Set("app_key", p.appKey)
	q.Set("results_per_page", strconv.Itoa(filters.Limit()))
	q.Set("what", filters.Keywords)
	q.Set("content_type", "application/json")

	if filters.Location != "" {
		q.Set("where", filters.Location)
	}
	if filters.SalaryMin > 0 {
		q.Set("salary_min", strconv.FormatFloat(filters.SalaryMin, 'f', -1, 64))
	}
	if filters.SalaryMax > 0 {
		q.Set("salary_max", strconv.FormatFloat(filters.SalaryMax, 'f', -1, 64))
	}
	if days := filters.DatePosted.DaysBack(); days > 0 {
		q.Set("max_days_old", strconv.Itoa(days))
	}

	return fmt.Sprintf("%s/%s/search/1?%s", p.BaseURL, p.country, q.Encode())
}

// resultItems extracts the listing objects from a relay payload, accepting
// either an object with a results array or a top-level array.
func resultItems(payload json.RawMessage) ([]map[string]any, error) {
	var wrapped struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}

	var items []map[string]any
	if err := json.Unmarshal(payload, &items); err == nil {
		return items, nil
	}

	return nil, fmt.Errorf("payload carries no listing items")
}
