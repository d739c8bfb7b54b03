package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "cv.pdf", want: "cv.pdf"},
		{name: "spaces", in: "  My CV (final).pdf ", want: "My_CV__final_.pdf"},
		{name: "unix traversal", in: "../../etc/passwd", want: "passwd"},
		{name: "windows path", in: `C:\Users\me\cv.docx`, want: "cv.docx"},
		{name: "hidden file", in: ".bashrc", want: "bashrc"},
		{name: "only dots", in: "...", want: "resume"},
		{name: "empty", in: "", want: "resume"},
		{name: "non ascii", in: "резюме", want: "resume"},
		{name: "non ascii with extension", in: "резюме.pdf", want: "______.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestSanitizeNameCapsLength(t *testing.T) {
	got := SanitizeName(strings.Repeat("a", 300) + ".pdf")

	assert.Len(t, got, maxNameLength)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestCandidateName(t *testing.T) {
	assert.Equal(t, "cv.pdf", candidateName("cv.pdf", 0))
	assert.Equal(t, "cv_1.pdf", candidateName("cv.pdf", 1))
	assert.Equal(t, "cv_12.pdf", candidateName("cv.pdf", 12))
	assert.Equal(t, "resume_2", candidateName("resume", 2))
}
