package textnorm

import "testing"

func TestCombineChunksDedupesFirstSeen(t *testing.T) {
	got := CombineChunks([]string{"b\na", "a\nc"})
	want := "b\na\nc"
	if got != want {
		t.Errorf("CombineChunks = %q, want %q", got, want)
	}
}

func TestCombineChunksIdempotent(t *testing.T) {
	chunks := []string{"1. First\nsecond line", "second line\n2. Next", "  \n1. First"}
	once := CombineChunks(chunks)
	twice := CombineChunks([]string{once})
	if once != twice {
		t.Errorf("CombineChunks not idempotent: %q vs %q", once, twice)
	}
}

func TestCombineChunksSkipsBlankLines(t *testing.T) {
	got := CombineChunks([]string{"\n\n  a  \n\n", "b\n\n"})
	if got != "a\nb" {
		t.Errorf("CombineChunks = %q, want %q", got, "a\nb")
	}
}

func TestExtractFromFirstNumbered(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"line start", "intro\n1. First\n2. Second", "1. First\n2. Second"},
		{"paren form", "header\n 1) choose one\n", "1) choose one\n"},
		{"inline fallback", "see question 1. What is X?", "1. What is X?"},
		{"no marker", "no numbering here", "no numbering here"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := ExtractFromFirstNumbered(tc.in); got != tc.want {
			t.Errorf("%s: ExtractFromFirstNumbered(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestTrimToQuestionEnd(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"earliest marker wins", "1. Q?\nAnswer: 42\n2. Next", "1. Q?"},
		{"next question wins", "1. Q?\n2. Next\nAnswer: 42", "1. Q?"},
		{"case insensitive", "1. Q?\nanswer: yes", "1. Q?"},
		{"solution marker", "1. Q?\nSolution: steps", "1. Q?"},
		{"chinese marker", "1. Q?\n答案: 四", "1. Q?"},
		{"three digit item", "1. Q?\n100. later", "1. Q?"},
		{"no marker", "1. only question", "1. only question"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := TrimToQuestionEnd(tc.in); got != tc.want {
			t.Errorf("%s: TrimToQuestionEnd(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestNormalizePipeline(t *testing.T) {
	in := "preamble text\n1. What is 2+2?\nAnswer: 4\n2. Next question"
	want := "1. What is 2+2?"
	if got := Normalize(in); got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeNeverErasesEverything(t *testing.T) {
	// A bare "Answer:" line would trim to nothing; the guard keeps the input.
	in := "Answer: 42"
	if got := Normalize(in); got != in {
		t.Errorf("Normalize(%q) = %q, want input preserved", in, got)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty", got)
	}
}
