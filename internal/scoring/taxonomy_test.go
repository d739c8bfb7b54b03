package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomyOrder(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.Equal(t, []string{
		"Python", "JavaScript", "Java", "C++", "SQL",
		"Docker", "AWS", "Git", "Machine Learning", "REST API",
	}, tax.Names())

	for _, skill := range tax.Skills() {
		assert.GreaterOrEqual(t, len(skill.Keywords), 2, skill.Name)
		assert.LessOrEqual(t, len(skill.Keywords), 6, skill.Name)
	}
}

func TestNewTaxonomyNormalizes(t *testing.T) {
	tax, err := NewTaxonomy([]Skill{
		{Name: "  Go ", Keywords: []string{" Golang ", "", "GO "}},
	})
	require.NoError(t, err)

	skills := tax.Skills()
	require.Len(t, skills, 1)
	assert.Equal(t, "Go", skills[0].Name)
	assert.Equal(t, []string{"golang", "go"}, skills[0].Keywords)
}

func TestNewTaxonomyRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		skills []Skill
	}{
		{name: "empty", skills: nil},
		{name: "missing name", skills: []Skill{{Name: " ", Keywords: []string{"x"}}}},
		{name: "no keywords", skills: []Skill{{Name: "Go", Keywords: []string{" "}}}},
		{
			name: "duplicate",
			skills: []Skill{
				{Name: "Go", Keywords: []string{"go"}},
				{Name: "go", Keywords: []string{"golang"}},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTaxonomy(tt.skills)
			assert.Error(t, err)
		})
	}
}

func TestSkillsReturnsCopy(t *testing.T) {
	tax := DefaultTaxonomy()
	skills := tax.Skills()
	skills[0].Name = "Changed"
	skills[0].Keywords[0] = "changed"

	assert.Equal(t, "Python", tax.Skills()[0].Name)
	assert.Equal(t, "python", tax.Skills()[0].Keywords[0])
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tax := DefaultTaxonomy()

	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name:        "taxonomy order, not text order",
			description: "AWS, Docker and Python",
			want:        []string{"Python", "Docker", "AWS"},
		},
		{
			name:        "keyword inside a larger word",
			description: "experience with containerization",
			want:        []string{"Docker"},
		},
		{
			name:        "multi-word keyword",
			description: "Background in Machine Learning",
			want:        []string{"Machine Learning"},
		},
		{
			name:        "one hit per skill",
			description: "django flask pandas numpy python",
			want:        []string{"Python"},
		},
		{
			name:        "empty",
			description: "",
			want:        []string{},
		},
		{
			name:        "no keywords",
			description: "Seeking an experienced accountant",
			want:        []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tax.Detect(tt.description))
		})
	}
}
