package scoring

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	// MatchThreshold is the draw a required skill must exceed to count as matched.
	MatchThreshold = 0.3
	// DefaultScore is the base score when the description names no known skill.
	DefaultScore = 75
	// EducationLabel is reported for every résumé.
	EducationLabel = "Bachelor's in Computer Science"

	scoreJitterMin = -10
	scoreJitterMax = 15
	experienceMin  = 2
	experienceMax  = 8

	descriptionPreviewLen = 120
)

// Analyzer scores résumés against job descriptions. It keeps no state between
// calls and is safe for concurrent use.
type Analyzer struct {
	taxonomy *Taxonomy
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyzer returns an Analyzer over the given taxonomy. A nil taxonomy means
// DefaultTaxonomy and a nil logger means no logging.
func NewAnalyzer(taxonomy *Taxonomy, logger *zap.Logger) *Analyzer {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		taxonomy: taxonomy,
		logger:   logger,
		now:      time.Now,
	}
}

// Taxonomy returns the skill list the analyzer matches against.
func (a *Analyzer) Taxonomy() *Taxonomy {
	return a.taxonomy
}

// Analyze builds a report for the given request. Two calls with the same input
// produce the same report except for the timestamp.
func (a *Analyzer) Analyze(in Input) (*Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rng := newSource(Seed)

	required := a.taxonomy.Detect(in.JobDescription)
	matched, missing := partition(rng, required)

	score := DefaultScore
	if len(required) > 0 {
		score = len(matched) * 100 / len(required)
	}
	score = clamp(score+rng.IntRange(scoreJitterMin, scoreJitterMax), 0, 100)

	report := &Report{
		FileName:        in.File.Name,
		FileSize:        in.File.Size,
		FileType:        in.File.Type,
		OverallScore:    score,
		MatchedSkills:   matched,
		MissingSkills:   missing,
		RequiredSkills:  required,
		ExperienceYears: rng.IntRange(experienceMin, experienceMax),
		EducationLabel:  EducationLabel,
		Recommendations: Recommend(score, missing),
		Timestamp:       a.now().Format(TimestampLayout),
	}

	a.logger.Debug("resume analyzed",
		zap.String("file_name", report.FileName),
		zap.Int("description_length", utf8.RuneCountInString(in.JobDescription)),
		zap.String("description_preview", utils.TruncateForLog(in.JobDescription, descriptionPreviewLen)),
		zap.Strings("required_skills", required),
		zap.Int("overall_score", score),
	)

	return report, nil
}

func partition(rng *source, required []string) ([]string, []string) {
	matched := make([]string, 0, len(required))
	missing := make([]string, 0)

	for _, skill := range required {
		if rng.Float64() > MatchThreshold {
			matched = append(matched, skill)
			continue
		}
		missing = append(missing, skill)
	}

	return matched, missing
}

// Recommend returns the advice lines for a final score and the skills still missing.
func Recommend(score int, missing []string) []string {
	var recs []string

	switch {
	case score >= 80:
		recs = []string{
			"Strong candidate with excellent skill match",
			"Suitable for senior-level positions",
		}
	case score >= 60:
		recs = []string{
			"Good candidate with solid foundation",
			"Consider for mid-level positions",
		}
	default:
		recs = []string{
			"Candidate needs additional training",
			"Consider for junior positions with mentoring",
		}
	}

	if len(missing) > 0 {
		recs = append(recs, "Training needed in: "+strings.Join(missing, ", "))
	}

	return recs
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
