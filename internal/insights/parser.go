package insights

import (
	"strings"
	"unicode"

	"github.com/algo-prep/backend/internal/models"
)

// maxLabelLen matches the error_pattern column width.
const maxLabelLen = 60

// CleanLabel canonicalizes a raw label into lowercase kebab-case. Model
// replies sometimes arrive quoted or with trailing chatter, so only the
// first line counts. Returns false when nothing usable remains.
func CleanLabel(raw string) (string, bool) {
	line := raw
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "\"'`")

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(line) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	label := strings.TrimRight(b.String(), "-")
	if len(label) > maxLabelLen {
		label = strings.TrimRight(label[:maxLabelLen], "-")
	}
	if label == "" {
		return "", false
	}
	return label, true
}

// FallbackLabel maps a verdict to a coarse label when no better analysis
// is available.
func FallbackLabel(status models.SubmissionStatus) string {
	switch status {
	case models.StatusTimeLimitExceeded:
		return "inefficient-algorithm"
	case models.StatusMemoryLimitExceeded:
		return "excessive-memory-use"
	case models.StatusRuntimeError:
		return "runtime-crash"
	case models.StatusCompileError:
		return "syntax-error"
	case models.StatusWrongAnswer:
		return "incorrect-logic"
	default:
		return ""
	}
}
