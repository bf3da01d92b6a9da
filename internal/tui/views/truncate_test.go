package views

import "testing"

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short stays", "Trip", 10, "Trip"},
		{"exact stays", "1234567890", 10, "1234567890"},
		{"long truncates", "a very long conversation title", 10, "a very lo…"},
		{"multibyte safe", "日本語のタイトルです長い", 5, "日本語の…"},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateTitle(tt.input, tt.max); got != tt.want {
				t.Errorf("truncateTitle(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
