package playback

import "testing"

func TestPhrases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "two sentences",
			input:    "Hello world. How are you?",
			expected: []string{"Hello world.", "How are you?"},
		},
		{
			name:     "trailing fragment without punctuation",
			input:    "First part. and then",
			expected: []string{"First part.", "and then"},
		},
		{
			name:     "single phrase",
			input:    "just some words",
			expected: []string{"just some words"},
		},
		{
			name:     "punctuation inside word does not split",
			input:    "pi is 3.14 exactly",
			expected: []string{"pi is 3.14 exactly"},
		},
		{
			name:     "semicolons and colons split",
			input:    "one; two: three",
			expected: []string{"one;", "two:", "three"},
		},
		{
			name:     "leading and trailing whitespace",
			input:    "  padded out.  ",
			expected: []string{"padded out."},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "  \n\t ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := phrases(tt.input)
			if len(spans) != len(tt.expected) {
				t.Fatalf("phrases() returned %d spans, want %d: %#v", len(spans), len(tt.expected), spans)
			}
			for i, span := range spans {
				got := tt.input[span.Offset : span.Offset+span.Length]
				if got != tt.expected[i] {
					t.Errorf("phrases()[%d] = %q, want %q", i, got, tt.expected[i])
				}
			}
		})
	}
}

func TestPhrasesOffsetsAreMonotonic(t *testing.T) {
	spans := phrases("One. Two. Three. Four five six.")
	last := -1
	for _, span := range spans {
		if span.Offset <= last {
			t.Fatalf("offsets not increasing: %#v", spans)
		}
		if span.Length <= 0 {
			t.Fatalf("empty span: %#v", span)
		}
		last = span.Offset
	}
}
