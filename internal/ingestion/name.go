package ingestion

import (
	"fmt"
	"path"
	"strings"
)

const (
	defaultBaseName = "resume"
	maxNameLength   = 128
)

// SanitizeName reduces a client-supplied name to a safe base name. Directory
// parts are dropped and anything outside [A-Za-z0-9._-] becomes an underscore.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if len(clean) > maxNameLength {
		ext := path.Ext(clean)
		if len(ext) > 16 {
			ext = ""
		}
		clean = clean[:maxNameLength-len(ext)] + ext
	}

	if strings.Trim(clean, "_") == "" {
		return defaultBaseName
	}
	return clean
}

// candidateName returns the n-th name to try: cv.pdf, cv_1.pdf, cv_2.pdf, ...
func candidateName(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
}
