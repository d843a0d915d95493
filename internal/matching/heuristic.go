package matching

import (
	"strings"

	"github.com/avisri/jobscout/internal/listings"
	"github.com/avisri/jobscout/internal/profile"
)

// skillVocabulary backs the lexical scorer when a posting carries no explicit
// skill list: any of these terms found in the posting text counts as a
// required skill.
var skillVocabulary = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "c++", "c#",
	"rust", "ruby", "php", "swift", "kotlin", "scala",
	"react", "angular", "vue", "node.js", "django", "flask", "spring",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
	"kafka", "rabbitmq", "grpc", "graphql", "rest",
	"git", "ci/cd", "linux", "agile", "scrum",
	"machine learning", "data analysis", "devops", "microservices",
}

// heuristicScore produces a fully populated Result without touching the AI
// backend, combining skill overlap, keyword overlap and coarse experience
// and education signals under the shared weighting.
func heuristicScore(posting listings.Posting, candidate profile.Candidate) Result {
	profileSkills := lowerSet(profile.ExtractSkills(candidate))
	required := requiredSkills(posting)

	skills := overlapScore(required, profileSkills)
	keywords := keywordScore(posting, candidate)
	experience := experienceScore(candidate)
	education := EducationScore{
		Score:   100,
		Matched: true,
		Details: "Education assumed sufficient; not verified locally.",
	}

	breakdown := Breakdown{
		Skills:     skills,
		Experience: experience,
		Education:  education,
		Keywords:   keywords,
	}

	strengths := []string{}
	if len(skills.Matched) > 0 {
		strengths = append(strengths, "Direct skill overlap: "+strings.Join(skills.Matched, ", "))
	}
	weaknesses := []string{}
	if len(skills.Missing) > 0 {
		weaknesses = append(weaknesses, "Listed requirements not found in profile: "+strings.Join(skills.Missing, ", "))
	}

	return Result{
		Posting:    posting,
		Score:      WeightedScore(breakdown),
		Breakdown:  breakdown,
		Strengths:  strengths,
		Weaknesses: weaknesses,
		Analysis: Analysis{
			OverallFit: "Estimated locally from keyword and skill overlap.",
		},
		Source: SourceHeuristic,
	}
}

// requiredSkills returns the posting's skill list, or the vocabulary terms
// present in its text when the posting names none.
func requiredSkills(posting listings.Posting) []string {
	if len(posting.Skills) > 0 {
		return posting.Skills
	}

	text := strings.ToLower(posting.Title + " " + posting.Description + " " + strings.Join(posting.Requirements, " "))

	var found []string
	for _, term := range skillVocabulary {
		if strings.Contains(text, term) {
			found = append(found, term)
		}
	}
	return found
}

func overlapScore(required []string, have map[string]struct{}) CategoryScore {
	if len(required) == 0 {
		return CategoryScore{Score: 50}
	}

	var matched, missing []string
	for _, skill := range required {
		if _, ok := have[strings.ToLower(skill)]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return CategoryScore{
		Score:   100 * len(matched) / len(required),
		Matched: matched,
		Missing: missing,
	}
}

// keywordScore measures word overlap between the posting and the rendered
// profile, counting only words long enough to carry meaning.
func keywordScore(posting listings.Posting, candidate profile.Candidate) CategoryScore {
	const minWordLen = 5

	profileWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(profile.ToText(candidate))) {
		if len(w) >= minWordLen {
			profileWords[strings.Trim(w, ".,;:()")] = struct{}{}
		}
	}

	jobWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(posting.Title + " " + posting.Description)) {
		w = strings.Trim(w, ".,;:()")
		if len(w) >= minWordLen {
			jobWords[w] = struct{}{}
		}
	}

	if len(jobWords) == 0 {
		return CategoryScore{Score: 50}
	}

	var matched []string
	for w := range jobWords {
		if _, ok := profileWords[w]; ok {
			matched = append(matched, w)
		}
	}

	return CategoryScore{Score: 100 * len(matched) / len(jobWords)}
}

// experienceScore is a coarse presence check: a candidate with any recorded
// experience gets full credit, one without gets partial credit.
func experienceScore(candidate profile.Candidate) CategoryScore {
	for _, section := range candidate.Sections {
		if section.Kind == profile.KindExperience && len(section.Experience) > 0 {
			return CategoryScore{Score: 100}
		}
	}
	return CategoryScore{Score: 33}
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}
