package listings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avisri/jobscout/internal/relay"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.response, s.err
}

func (s *stubGenerator) Model() string { return "stub" }

func TestNormalizeRecordDefaults(t *testing.T) {
	p := normalizeRecord(providerRecord{}, 4)

	assert.Equal(t, "provider_unknown_4", p.ID)
	assert.Equal(t, "Untitled Position", p.Title)
	assert.Equal(t, "Unknown Company", p.Employer)
	assert.Equal(t, "Remote", p.Location)
	assert.Equal(t, SourceProvider, p.Source)
	assert.Nil(t, p.Salary)
	assert.WithinDuration(t, time.Now().UTC(), p.PostedAt, time.Minute)
}

func TestNormalizeRecordFullRecord(t *testing.T) {
	rec := providerRecord{
		ID:           "12345",
		Title:        "  Platform Engineer ",
		Description:  "Build things.",
		RedirectURL:  "https://example.com/jobs/12345",
		SalaryMin:    90000,
		SalaryMax:    120000,
		Created:      "2025-08-20T10:00:00Z",
		ContractType: "full_time",
	}
	rec.Company.DisplayName = "Acme"
	rec.Location.DisplayName = "Austin,  TX"
	rec.Category.Label = "IT Jobs"

	p := normalizeRecord(rec, 0)

	assert.Equal(t, "provider_12345", p.ID)
	assert.Equal(t, "Platform Engineer", p.Title)
	assert.Equal(t, "Acme", p.Employer)
	assert.Equal(t, "Austin, TX", p.Location)
	require.NotNil(t, p.Salary)
	assert.Equal(t, 90000.0, p.Salary.Min)
	assert.Equal(t, "yearly", p.Salary.Period)
	assert.Equal(t, []string{"IT Jobs"}, p.Skills)
	assert.Equal(t, time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC), p.PostedAt)
}

func TestDedupKeepsFirstOccurrence(t *testing.T) {
	postings := []Posting{
		{ID: "a", Title: "Go Developer", Employer: "Acme"},
		{ID: "b", Title: "go developer", Employer: "ACME"},
		{ID: "c", Title: "Go Developer", Employer: "Other"},
	}

	got := Dedup(postings)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	// Idempotent on already-deduplicated input.
	assert.Equal(t, got, Dedup(got))
}

func TestSortByPostedDesc(t *testing.T) {
	now := time.Now().UTC()
	postings := []Posting{
		{ID: "old", PostedAt: now.AddDate(0, 0, -10)},
		{ID: "new", PostedAt: now},
		{ID: "mid", PostedAt: now.AddDate(0, 0, -3)},
	}

	SortByPostedDesc(postings)

	assert.Equal(t, []string{"new", "mid", "old"}, []string{postings[0].ID, postings[1].ID, postings[2].ID})
}

func TestSearchFiltersValidate(t *testing.T) {
	assert.Error(t, SearchFilters{}.Validate())
	assert.Error(t, SearchFilters{Keywords: "   "}.Validate())
	assert.NoError(t, SearchFilters{Keywords: "golang"}.Validate())
}

func TestDateBucketDaysBack(t *testing.T) {
	assert.Equal(t, 1, DateToday.DaysBack())
	assert.Equal(t, 7, DateWeek.DaysBack())
	assert.Equal(t, 30, DateMonth.DaysBack())
	assert.Equal(t, 0, DateAll.DaysBack())
	assert.Equal(t, 0, DateBucket("").DaysBack())
}

func relayTo(t *testing.T, server *httptest.Server) *relay.Client {
	t.Helper()
	return relay.New([]relay.Endpoint{{
		Name:  "test",
		Build: func(target string) string { return server.URL + "?target=" + target },
	}}, nil)
}

func TestProviderFetchNormalizesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"id":"1","title":"Go Developer","company":{"display_name":"Acme"},"location":{"display_name":"Remote"},"created":"2025-08-25T00:00:00Z"},
			{"id":"2","title":"Go Developer","company":{"display_name":"Acme"},"created":"2025-08-24T00:00:00Z"}
		]}`)
	}))
	defer server.Close()

	client := NewProviderClient("id", "key", "us", relayTo(t, server), nil)

	postings, err := client.Fetch(context.Background(), SearchFilters{Keywords: "golang"})
	require.NoError(t, err)

	// The two records share a (title, employer) key and collapse to one.
	require.Len(t, postings, 1)
	assert.Equal(t, "provider_1", postings[0].ID)
}

func TestProviderBuildURLCarriesFilters(t *testing.T) {
	client := NewProviderClient("myid", "mykey", "gb", nil, nil)

	got := client.buildURL(SearchFilters{
		Keywords:   "site reliability",
		Location:   "London",
		SalaryMin:  50000,
		DatePosted: DateWeek,
		MaxResults: 10,
	})

	assert.Contains(t, got, "/gb/search/1?")
	assert.Contains(t, got, "app_id=myid")
	assert.Contains(t, got, "what=site+reliability")
	assert.Contains(t, got, "where=London")
	assert.Contains(t, got, "salary_min=50000")
	assert.Contains(t, got, "max_days_old=7")
	assert.Contains(t, got, "results_per_page=10")
}

func TestSynthesizerParsesFencedArray(t *testing.T) {
	gen := &stubGenerator{response: "```json\n[{\"title\":\"Go Developer\",\"company\":\"Acme\",\"salary_min\":90000,\"salary_max\":120000,\"skills\":[\"Go\"],},]\n```"}
	synth := NewSynthesizer(gen, nil)

	postings, err := synth.Generate(context.Background(), SearchFilters{Keywords: "golang"}, 5)
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, SourceSynthetic, p.Source)
	assert.Equal(t, "Acme", p.Employer)
	assert.Equal(t, "Remote", p.Location)
	assert.Contains(t, p.ID, "synthetic_")
	require.NotNil(t, p.Salary)
	assert.Equal(t, 90000.0, p.Salary.Min)
}

func TestSynthesizerDropsIncompleteRecords(t *testing.T) {
	gen := &stubGenerator{response: `[{"title":"","company":"Acme"},{"title":"Go Developer","company":"Acme"}]`}
	synth := NewSynthesizer(gen, nil)

	postings, err := synth.Generate(context.Background(), SearchFilters{Keywords: "golang"}, 5)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, "Go Developer", postings[0].Title)
}

func TestSynthesizerFillsMissingURL(t *testing.T) {
	gen := &stubGenerator{response: `[
		{"title":"Go Developer","company":"Acme Cloud","url":"https://example.com/jobs/42"},
		{"title":"Platform Engineer","company":"Startup Labs"}
	]`}
	synth := NewSynthesizer(gen, nil)

	postings, err := synth.Generate(context.Background(), SearchFilters{Keywords: "golang"}, 5)
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "https://example.com/jobs/42", postings[0].URL)

	require.NotEmpty(t, postings[1].URL, "records without a url get a synthesized one")
	assert.True(t, strings.HasPrefix(postings[1].URL, "https://"), "got %q", postings[1].URL)
	assert.Contains(t, postings[1].URL, "platform-engineer-at-startup-labs")
}

func TestSynthesizerRejectsUnusableResponse(t *testing.T) {
	gen := &stubGenerator{response: "I cannot generate job listings."}
	synth := NewSynthesizer(gen, nil)

	_, err := synth.Generate(context.Background(), SearchFilters{Keywords: "golang"}, 5)
	assert.Error(t, err)
}

func TestSearchRejectsInvalidFilters(t *testing.T) {
	svc := NewService(nil, nil, nil)

	_, err := svc.Search(context.Background(), SearchFilters{})
	assert.Error(t, err)
}

func TestSearchFallsBackToSynthetic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewProviderClient("id", "key", "us", relayTo(t, server), nil)
	gen := &stubGenerator{response: `[{"title":"Go Developer","company":"Acme"}]`}
	svc := NewService(provider, NewSynthesizer(gen, nil), nil)

	postings, err := svc.Search(context.Background(), SearchFilters{Keywords: "golang"})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, SourceSynthetic, postings[0].Source)
	assert.Equal(t, 1, gen.calls)
}

func TestSearchServesSeedWhenAllTiersFail(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	svc := NewService(nil, NewSynthesizer(gen, nil), nil)

	postings, err := svc.Search(context.Background(), SearchFilters{Keywords: "golang"})
	require.NoError(t, err)
	require.NotEmpty(t, postings)
	for _, p := range postings {
		assert.Equal(t, SourceSeed, p.Source)
	}
}

func TestSearchSkipsUnconfiguredProvider(t *testing.T) {
	gen := &stubGenerator{response: `[{"title":"Go Developer","company":"Acme"}]`}
	svc := NewService(NewProviderClient("", "", "us", nil, nil), NewSynthesizer(gen, nil), nil)

	postings, err := svc.Search(context.Background(), SearchFilters{Keywords: "golang"})
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, postings[0].Source)
}

func TestSearchPropagatesDeadContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &stubGenerator{response: `[{"title":"Go Developer","company":"Acme"}]`}
	svc := NewService(nil, NewSynthesizer(gen, nil), nil)

	_, err := svc.Search(ctx, SearchFilters{Keywords: "golang"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchCapsResults(t *testing.T) {
	svc := NewService(nil, nil, nil)

	postings, err := svc.Search(context.Background(), SearchFilters{Keywords: "golang", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, postings, 2)
}

func TestSeedPostingsAreStable(t *testing.T) {
	first := SeedPostings()
	second := SeedPostings()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, SourceSeed, first[i].Source)
	}
}
