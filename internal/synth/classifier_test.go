package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "plain hello", text: "hello", expected: true},
		{name: "hi with punctuation", text: "Hi!", expected: true},
		{name: "whats up with apostrophe", text: "What's up?", expected: true},
		{name: "good morning", text: "good morning", expected: true},
		{name: "padded with whitespace", text: "  hey  ", expected: true},
		{name: "greeting plus content is not a bare greeting", text: "hi, can you fix my build", expected: false},
		{name: "question", text: "how do closures work", expected: false},
		{name: "empty", text: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsGreeting(tt.text))
		})
	}
}

func TestIsSmalltalk(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "explicit phrase", text: "how are you?", expected: true},
		{name: "phrase with sentiment", text: "how are you feeling today?", expected: true},
		{name: "hows your day", text: "How's your day going?", expected: true},
		{name: "heuristic second person plus sentiment verb", text: "are you doing ok over there?", expected: true},
		{name: "technical keyword vetoes phrasing", text: "how do I fix this bug in my code?", expected: false},
		{name: "personable bug report still technical", text: "hope you're doing well! my api deploy raised an exception", expected: false},
		{name: "keyword with trailing comma still vetoes", text: "how are you? also my build, it is broken", expected: false},
		{name: "keyword inside a longer word does not veto", text: "how are you feeling about your therapist?", expected: true},
		{name: "prefix does not trip a keyword", text: "how are you doing with that prefix thing?", expected: true},
		{name: "multi word keyword vetoes as a run", text: "how are you? here is the stack trace", expected: false},
		{name: "no second person reference", text: "the weather is doing something strange", expected: false},
		{name: "no sentiment verb", text: "do you like music?", expected: false},
		{
			name:     "over the word cap",
			text:     "you know I was thinking about how things are going for you and me and everyone we know these days and also last week and the week before that too",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSmalltalk(tt.text))
		})
	}
}

func TestClassifierIsPure(t *testing.T) {
	inputs := []string{"hello", "how are you feeling today?", "fix my code"}
	for _, in := range inputs {
		assert.Equal(t, IsGreeting(in), IsGreeting(in))
		assert.Equal(t, IsSmalltalk(in), IsSmalltalk(in))
	}
}
