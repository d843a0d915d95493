package profile

import (
	"fmt"
	"strings"
)

// ToText renders the candidate's sections, in order, as labeled plain text.
// The output feeds both prompt construction and the lexical fallback matcher,
// so it must stay deterministic for a given candidate.
func ToText(c Candidate) string {
	var b strings.Builder

	for _, section := range c.Sections {
		title := strings.TrimSpace(section.Title)
		if title == "" {
			title = defaultTitle(section.Kind)
		}
		fmt.Fprintf(&b, "\n%s:\n", title)

		switch section.Kind {
		case KindHeader:
			if section.Header != nil {
				writeLine(&b, section.Header.FullName)
				writeLine(&b, section.Header.Email)
				writeLine(&b, section.Header.Phone)
				writeLine(&b, section.Header.Location)
			}
		case KindSummary:
			writeLine(&b, section.Summary)
		case KindExperience:
			for _, exp := range section.Experience {
				fmt.Fprintf(&b, "%s at %s\n", exp.Title, exp.Employer)
				writeLine(&b, exp.Description)
				if len(exp.Achievements) > 0 {
					fmt.Fprintf(&b, "Achievements: %s\n", strings.Join(exp.Achievements, ", "))
				}
				if len(exp.Technologies) > 0 {
					fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(exp.Technologies, ", "))
				}
			}
		case KindEducation:
			for _, edu := range section.Education {
				line := fmt.Sprintf("%s from %s", edu.Degree, edu.Institution)
				if edu.Year != "" {
					line += " (" + edu.Year + ")"
				}
				writeLine(&b, line)
			}
		case KindSkills:
			names := make([]string, 0, len(section.Skills))
			for _, skill := range section.Skills {
				if skill.Name != "" {
					names = append(names, skill.Name)
				}
			}
			writeLine(&b, strings.Join(names, ", "))
		case KindProjects:
			for _, proj := range section.Projects {
				fmt.Fprintf(&b, "%s: %s\n", proj.Name, proj.Description)
				if len(proj.Technologies) > 0 {
					fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(proj.Technologies, ", "))
				}
			}
		}
	}

	return b.String()
}

// ExtractSkills collects the distinct skill names mentioned across the skills,
// experience and project sections, preserving first-seen order.
func ExtractSkills(c Candidate) []string {
	seen := make(map[string]struct{})
	var skills []string

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		skills = append(skills, name)
	}

	for _, section := range c.Sections {
		switch section.Kind {
		case KindSkills:
			for _, skill := range section.Skills {
				add(skill.Name)
			}
		case KindExperience:
			for _, exp := range section.Experience {
				for _, tech := range exp.Technologies {
					add(tech)
				}
			}
		case KindProjects:
			for _, proj := range section.Projects {
				for _, tech := range proj.Technologies {
					add(tech)
				}
			}
		}
	}

	return skills
}

func writeLine(b *strings.Builder, s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	b.WriteString(s)
	b.WriteString("\n")
}

func defaultTitle(kind SectionKind) string {
	switch kind {
	case KindHeader:
		return "Contact"
	case KindSummary:
		return "Summary"
	case KindExperience:
		return "Experience"
	case KindEducation:
		return "Education"
	case KindSkills:
		return "Skills"
	case KindProjects:
		return "Projects"
	default:
		return string(kind)
	}
}
