package stub

import (
	"strings"
	"testing"
)

func TestGenerateReplyEchoes(t *testing.T) {
	got := generateReply("hello there")
	if !strings.Contains(got, `"hello there"`) {
		t.Errorf("reply %q does not echo the input", got)
	}
}

func TestGenerateReplyDeterministic(t *testing.T) {
	if generateReply("same") != generateReply("same") {
		t.Error("replies for identical input differ")
	}
}

func TestGenerateReplyEmptyInput(t *testing.T) {
	got := generateReply("   ")
	if got == "" {
		t.Error("empty input should still produce a reply")
	}
	if strings.Contains(got, `""`) {
		t.Errorf("reply %q echoes an empty string", got)
	}
}

func TestGenerateReplyCapsLongInput(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := generateReply(long)
	if len(got) >= 500 {
		t.Errorf("reply length = %d, want echo capped", len(got))
	}
	if !strings.Contains(got, "...") {
		t.Errorf("capped reply %q missing ellipsis", got)
	}
}
