package listings

import "time"

// SeedPostings is the last-resort catalog served when both the provider and
// the synthesizer are unavailable. IDs are fixed so repeated calls stay
// stable across sessions.
func SeedPostings() []Posting {
	base := time.Now().UTC()

	return []Posting{
		{
			ID:          "seed_1",
			Title:       "Senior Software Engineer",
			Employer:    "TechCorp Solutions",
			Location:    "San Francisco, CA",
			Description: "We are looking for a senior software engineer to join our platform team. You will design and build scalable backend services, mentor junior engineers and own features end to end.",
			Salary:      &SalaryRange{Min: 140000, Max: 180000, Currency: "USD", Period: "yearly"},
			PostedAt:    base.AddDate(0, 0, -2),
			Source:      SourceSeed,
			Skills:      []string{"Go", "PostgreSQL", "Kubernetes", "AWS"},
			Requirements: []string{
				"5+ years of backend development experience",
				"Experience operating services in production",
			},
			Type:            "full_time",
			ExperienceLevel: "senior",
		},
		{
			ID:          "seed_2",
			Title:       "Full Stack Developer",
			Employer:    "Startup Labs",
			Location:    "Remote",
			Description: "Join an early-stage team building developer tooling. You will work across the stack, ship quickly and talk to users directly.",
			Salary:      &SalaryRange{Min: 100000, Max: 140000, Currency: "USD", Period: "yearly"},
			PostedAt:    base.AddDate(0, 0, -5),
			Source:      SourceSeed,
			Skills:      []string{"TypeScript", "React", "Node.js", "GraphQL"},
			Requirements: []string{
				"3+ years of full stack experience",
				"Comfort with ambiguity and rapid iteration",
			},
			Type:            "full_time",
			ExperienceLevel: "mid",
		},
		{
			ID:          "seed_3",
			Title:       "Data Engineer",
			Employer:    "Insight Analytics",
			Location:    "New York, NY",
			Description: "Build and maintain the data pipelines powering our analytics products. You will own ingestion, transformation and warehouse modeling.",
			Salary:      &SalaryRange{Min: 120000, Max: 155000, Currency: "USD", Period: "yearly"},
			PostedAt:    base.AddDate(0, 0, -8),
			Source:      SourceSeed,
			Skills:      []string{"Python", "SQL", "Airflow", "Spark"},
			Requirements: []string{
				"Experience with batch and streaming pipelines",
				"Strong SQL and data modeling skills",
			},
			Type:            "full_time",
			ExperienceLevel: "mid",
		},
	}
}
