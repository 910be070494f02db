package insights

import (
	"strings"
	"testing"

	"github.com/algo-prep/backend/internal/models"
)

func TestCleanLabel_PassesThroughCleanInput(t *testing.T) {
	got, ok := CleanLabel("off-by-one")
	if !ok || got != "off-by-one" {
		t.Errorf("CleanLabel = %q, %v; want off-by-one, true", got, ok)
	}
}

func TestCleanLabel_NormalizesCase(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Off By One", "off-by-one"},
		{"missing_null_check", "missing-null-check"},
		{"  Wrong Loop Bound  ", "wrong-loop-bound"},
		{"\"incorrect-base-case\"", "incorrect-base-case"},
		{"`greedy-when-dp-needed`", "greedy-when-dp-needed"},
	}

	for _, tt := range tests {
		got, ok := CleanLabel(tt.raw)
		if !ok || got != tt.want {
			t.Errorf("CleanLabel(%q) = %q, %v; want %q, true", tt.raw, got, ok, tt.want)
		}
	}
}

func TestCleanLabel_TakesFirstLineOnly(t *testing.T) {
	got, ok := CleanLabel("off-by-one\nThe loop runs one step too far.")
	if !ok || got != "off-by-one" {
		t.Errorf("CleanLabel = %q, %v; want off-by-one, true", got, ok)
	}
}

func TestCleanLabel_RejectsEmptyResult(t *testing.T) {
	for _, raw := range []string{"", "   ", "!!!", "---", "\"\""} {
		if got, ok := CleanLabel(raw); ok {
			t.Errorf("CleanLabel(%q) = %q, true; want rejection", raw, got)
		}
	}
}

func TestCleanLabel_CapsLength(t *testing.T) {
	long := strings.Repeat("very-", 30) + "long"
	got, ok := CleanLabel(long)
	if !ok {
		t.Fatal("CleanLabel rejected a long but valid label")
	}
	if len(got) > maxLabelLen {
		t.Errorf("len = %d, want <= %d", len(got), maxLabelLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("label %q ends with a hyphen after truncation", got)
	}
}

func TestFallbackLabel(t *testing.T) {
	tests := []struct {
		status models.SubmissionStatus
		want   string
	}{
		{models.StatusTimeLimitExceeded, "inefficient-algorithm"},
		{models.StatusMemoryLimitExceeded, "excessive-memory-use"},
		{models.StatusRuntimeError, "runtime-crash"},
		{models.StatusCompileError, "syntax-error"},
		{models.StatusWrongAnswer, "incorrect-logic"},
		{models.StatusAccepted, ""},
	}

	for _, tt := range tests {
		if got := FallbackLabel(tt.status); got != tt.want {
			t.Errorf("FallbackLabel(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestBuildLabelPrompt_IncludesContext(t *testing.T) {
	prompt := BuildLabelPrompt("two-sum", []string{"array", "hash-table"}, models.StatusWrongAnswer, "expected [0,1], got [1,0]")

	for _, want := range []string{"two-sum", "array, hash-table", "Wrong Answer", "expected [0,1]"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildLabelPrompt_TruncatesLongErrorOutput(t *testing.T) {
	long := strings.Repeat("x", 5000)
	prompt := BuildLabelPrompt("q1", nil, models.StatusRuntimeError, long)
	if len(prompt) > 2500 {
		t.Errorf("len(prompt) = %d, want error output truncated", len(prompt))
	}
}
