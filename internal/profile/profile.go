package profile

// SectionKind discriminates the typed content a resume section carries.
type SectionKind string

const (
	KindHeader     SectionKind = "header"
	KindSummary    SectionKind = "summary"
	KindExperience SectionKind = "experience"
	KindEducation  SectionKind = "education"
	KindSkills     SectionKind = "skills"
	KindProjects   SectionKind = "projects"
)

// Candidate is a structured resume supplied by the caller. The pipeline treats
// it as read-only: sections are rendered to text and mined for skills, never
// mutated.
type Candidate struct {
	Sections []Section `json:"sections"`
}

// Section is a tagged union: exactly the field matching Kind is meaningful.
type Section struct {
	Kind  SectionKind `json:"kind"`
	Title string      `json:"title"`

	Header     *Header          `json:"header,omitempty"`
	Summary    string           `json:"summary,omitempty"`
	Experience []ExperienceItem `json:"experience,omitempty"`
	Education  []EducationItem  `json:"education,omitempty"`
	Skills     []SkillItem      `json:"skills,omitempty"`
	Projects   []ProjectItem    `json:"projects,omitempty"`
}

type Header struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

type ExperienceItem struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Employer     string   `json:"employer"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

type EducationItem struct {
	ID          string `json:"id,omitempty"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
}

type SkillItem struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type ProjectItem struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}
