package logutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeEscapesControlCharacters(t *testing.T) {
	got := Sanitize("line1\nline2\tend\x01x")
	want := `line1\nline2\tend?x`
	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeShortTextUnchanged(t *testing.T) {
	if got := Sanitize("plain text"); got != "plain text" {
		t.Errorf("Sanitize = %q, want unchanged", got)
	}
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	// byte 100 lands inside the first multi-byte rune
	text := strings.Repeat("a", 99) + "世界"
	got := Sanitize(text)
	if !utf8.ValidString(got) {
		t.Fatalf("Sanitize produced invalid UTF-8: %q", got)
	}
	want := strings.Repeat("a", 99) + "..."
	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}
