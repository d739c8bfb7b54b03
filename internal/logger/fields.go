package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/scoring"
)

const (
	// FieldReportID is the structured log field key for a stored report.
	FieldReportID = "report_id"
	// FieldFileName is the structured log field key for the analysed file.
	FieldFileName = "file_name"
	// FieldScore is the structured log field key for the overall score.
	FieldScore = "overall_score"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ReportFields summarizes a report for a single log line. The report ID is
// skipped when empty.
func ReportFields(id string, report *scoring.Report) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldReportID, Value: id},
	)
	if report == nil {
		return fields
	}

	fields = append(fields, StringFields(StringField{Key: FieldFileName, Value: report.FileName})...)

	return append(fields,
		zap.Int(FieldScore, report.OverallScore),
		zap.Int("required_skills", len(report.RequiredSkills)),
		zap.Strings("missing_skills", report.MissingSkills),
	)
}
