package scoring

import (
	"fmt"
	"strings"
)

// Skill ties a skill name to the lowercase keywords that signal it in a job description.
type Skill struct {
	Name     string   `mapstructure:"name" json:"name"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// Taxonomy is an ordered, read-only list of skills. The order decides the
// order of required skills in a report.
type Taxonomy struct {
	skills []Skill
}

// NewTaxonomy validates and normalizes the given skills. Keywords are trimmed and
// lowercased, empty ones are dropped.
func NewTaxonomy(skills []Skill) (*Taxonomy, error) {
	if len(skills) == 0 {
		return nil, fmt.Errorf("taxonomy must contain at least one skill")
	}

	seen := make(map[string]struct{}, len(skills))
	normalized := make([]Skill, 0, len(skills))

	for i, skill := range skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			return nil, fmt.Errorf("skill #%d: name is required", i)
		}

		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("skill %q: duplicate name", name)
		}
		seen[key] = struct{}{}

		keywords := make([]string, 0, len(skill.Keywords))
		for _, kw := range skill.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			keywords = append(keywords, kw)
		}

		if len(keywords) == 0 {
			return nil, fmt.Errorf("skill %q: at least one keyword is required", name)
		}

		normalized = append(normalized, Skill{Name: name, Keywords: keywords})
	}

	return &Taxonomy{skills: normalized}, nil
}

// DefaultTaxonomy returns the built-in skill list.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(defaultSkills())
	if err != nil {
		panic(fmt.Sprintf("built-in taxonomy is invalid: %v", err))
	}
	return t
}

func defaultSkills() []Skill {
	return []Skill{
		{Name: "Python", Keywords: []string{"python", "django", "flask", "pandas", "numpy"}},
		{Name: "JavaScript", Keywords: []string{"javascript", "js", "react", "node", "vue", "angular"}},
		{Name: "Java", Keywords: []string{"java", "spring", "maven"}},
		{Name: "C++", Keywords: []string{"c++", "cpp"}},
		{Name: "SQL", Keywords: []string{"sql", "mysql", "postgresql", "database"}},
		{Name: "Docker", Keywords: []string{"docker", "container", "kubernetes"}},
		{Name: "AWS", Keywords: []string{"aws", "amazon web services", "ec2", "s3"}},
		{Name: "Git", Keywords: []string{"git", "github", "gitlab"}},
		{Name: "Machine Learning", Keywords: []string{"machine learning", "ml", "tensorflow", "pytorch"}},
		{Name: "REST API", Keywords: []string{"rest api", "restful", "api"}},
	}
}

// Len returns the number of skills.
func (t *Taxonomy) Len() int {
	return len(t.skills)
}

// Skills returns a copy of the skills in taxonomy order.
func (t *Taxonomy) Skills() []Skill {
	out := make([]Skill, len(t.skills))
	for i, s := range t.skills {
		out[i] = Skill{Name: s.Name, Keywords: append([]string(nil), s.Keywords...)}
	}
	return out
}

// Names returns skill names in taxonomy order.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, len(t.skills))
	for _, s := range t.skills {
		names = append(names, s.Name)
	}
	return names
}

// Detect returns the skills whose keywords occur anywhere in the description.
// Matching is a plain case-insensitive substring test.
func (t *Taxonomy) Detect(description string) []string {
	text := strings.ToLower(description)
	if text == "" {
		return []string{}
	}

	required := make([]string, 0)
	for _, skill := range t.skills {
		for _, kw := range skill.Keywords {
			if strings.Contains(text, kw) {
				required = append(required, skill.Name)
				break
			}
		}
	}

	return required
}
