package repl

import (
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		word   string
		start  int
		end    int
	}{
		{
			name:  "cursor at end of word",
			input: "Say", cursor: 3,
			word: "Say", start: 0, end: 3,
		},
		{
			name:  "cursor mid-word extends both ways",
			input: "While", cursor: 2,
			word: "While", start: 0, end: 5,
		},
		{
			name:  "second word",
			input: "Say msg", cursor: 7,
			word: "msg", start: 4, end: 7,
		},
		{
			name:  "cursor after space is empty",
			input: "Say ", cursor: 4,
			word: "", start: 4, end: 4,
		},
		{
			name:  "empty input",
			input: "", cursor: 0,
			word: "", start: 0, end: 0,
		},
		{
			name:  "cursor clamped to input length",
			input: "DO", cursor: 10,
			word: "DO", start: 0, end: 2,
		},
		{
			name:  "underscore stays in word",
			input: "Create_operation", cursor: 8,
			word: "Create_operation", start: 0, end: 16,
		},
		{
			name:  "hash stays in word",
			input: "#START_BLOCK", cursor: 6,
			word: "#START_BLOCK", start: 0, end: 12,
		},
		{
			name:  "parenthesis delimits",
			input: "operation[2]", cursor: 5,
			word: "operation", start: 0, end: 9,
		},
		{
			name:  "operator delimits",
			input: "x==y", cursor: 4,
			word: "y", start: 3, end: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)

			if word != tt.word || start != tt.start || end != tt.end {
				t.Errorf("expected (%q, %d, %d), got (%q, %d, %d)",
					tt.word, tt.start, tt.end, word, start, end)
			}
		})
	}
}

func TestIsWordBoundary(t *testing.T) {
	boundaries := []rune{' ', '\t', '(', ')', '{', '}', '[', ']',
		'+', '-', '*', '/', '%', '<', '>', '=', '!', ',', ';', '.', '@'}

	for _, r := range boundaries {
		if !isWordBoundary(r) {
			t.Errorf("expected %q to be a boundary", r)
		}
	}

	// Keywords contain underscores and '#', so neither delimits a word.
	for _, r := range []rune{'_', '#', 'a', 'Z', '0'} {
		if isWordBoundary(r) {
			t.Errorf("expected %q to stay inside a word", r)
		}
	}
}

func TestRenderCandidateBar_Empty(t *testing.T) {
	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("expected empty bar for no matches, got %q", got)
	}
}
