package scoring

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TimestampLayout is the report timestamp format (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// FileMeta describes an uploaded résumé. It is echoed into the report and never scored.
type FileMeta struct {
	Name string `json:"name" mapstructure:"name" validate:"required"`
	Size int64  `json:"size" mapstructure:"size" validate:"gte=0"`
	Type string `json:"type" mapstructure:"type"`
}

// Input is a single analysis request.
type Input struct {
	File           FileMeta `json:"file"`
	JobDescription string   `json:"jobDescription"`
}

// Report is the outcome of one analysis. It is built fresh for every call.
type Report struct {
	FileName        string   `json:"fileName"`
	FileSize        int64    `json:"fileSize"`
	FileType        string   `json:"fileType"`
	OverallScore    int      `json:"overallScore"`
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
	RequiredSkills  []string `json:"requiredSkills"`
	ExperienceYears int      `json:"experienceYears"`
	EducationLabel  string   `json:"educationLabel"`
	Recommendations []string `json:"recommendations"`
	Timestamp       string   `json:"timestamp"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request and returns an InvalidInput error for the first bad field.
// The job description is never validated: an empty one is a legal request.
func (in *Input) Validate() error {
	in.File.Name = strings.TrimSpace(in.File.Name)
	in.File.Type = strings.TrimSpace(in.File.Type)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalidInput(strings.TrimPrefix(fe.Namespace(), "Input."), describeTag(fe))
	}

	return invalidInput("", err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
