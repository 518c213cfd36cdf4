package synth

import "strings"

// greetingPhrases are matched exactly against the trimmed, lowercased prompt.
var greetingPhrases = []string{
	"hello",
	"hi",
	"hey",
	"yo",
	"hiya",
	"howdy",
	"what's up",
	"whats up",
	"sup",
	"good morning",
	"good afternoon",
	"good evening",
}

// technicalKeywords force a non-smalltalk classification no matter how the
// question is phrased. A bug report worded personably is still a bug report.
var technicalKeywords = []string{
	"bug",
	"error",
	"fix",
	"code",
	"function",
	"api",
	"stack trace",
	"exception",
	"deploy",
	"database",
	"build",
	"script",
}

// smalltalkPhrases are explicit casual-conversation openers.
var smalltalkPhrases = []string{
	"how are you",
	"how're you",
	"how you doing",
	"how is it going",
	"how's it going",
	"hows it going",
	"what's up",
	"whats up",
	"how's your day",
	"hows your day",
	"how was your day",
	"what are you up to",
	"how do you feel",
	"how are you feeling",
}

// sentimentVerbs mark the heuristic smalltalk fallback.
var sentimentVerbs = []string{"feel", "feeling", "doing", "going"}

const smalltalkMaxWords = 24

// IsGreeting reports whether the prompt is a bare greeting.
func IsGreeting(text string) bool {
	normalized := normalizePrompt(text)
	for _, phrase := range greetingPhrases {
		if normalized == phrase {
			return true
		}
	}
	return false
}

// IsSmalltalk reports whether the prompt is casual smalltalk rather than a
// task. Technical keywords veto everything else.
func IsSmalltalk(text string) bool {
	normalized := normalizePrompt(text)
	words := strings.Fields(normalized)

	for _, kw := range technicalKeywords {
		if containsPhrase(words, kw) {
			return false
		}
	}

	for _, phrase := range smalltalkPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}

	// Heuristic fallback: short, addressed to the assistant, and about how
	// someone is feeling or doing.
	if len(words) > smalltalkMaxWords {
		return false
	}
	if !containsWord(words, "you") && !containsWord(words, "your") {
		return false
	}
	for _, verb := range sentimentVerbs {
		if containsWord(words, verb) {
			return true
		}
	}
	return false
}

func normalizePrompt(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRight(normalized, "!.? ")
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if strings.Trim(w, ",.!?;:'\"") == target {
			return true
		}
	}
	return false
}

// containsPhrase matches a keyword as whole words, so "therapist" never
// trips "api". Multi-word keywords must appear as a consecutive run.
func containsPhrase(words []string, phrase string) bool {
	parts := strings.Fields(phrase)
	if len(parts) == 0 {
		return false
	}
outer:
	for i := 0; i+len(parts) <= len(words); i++ {
		for j, part := range parts {
			if strings.Trim(words[i+j], ",.!?;:'\"") != part {
				continue outer
			}
		}
		return true
	}
	return false
}
