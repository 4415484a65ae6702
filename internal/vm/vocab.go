package vm

// Vocabulary lists the recognized surface forms per command family. The
// classifier checks a push/pop segment token against the matching segment
// list and an arithmetic line against the operator list; anything outside
// these tables is an invalid command.
type Vocabulary struct {
	Arithmetic   []string
	PushSegments []string
	PopSegments  []string
}

// DefaultVocabulary returns the standard VM dialect: nine arithmetic
// operators, eight push segments and seven pop segments. Pop excludes
// constant since the constant segment cannot be assigned to.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Arithmetic: []string{
			"add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not",
		},
		PushSegments: []string{
			"constant", "local", "argument", "this", "that", "static", "temp", "pointer",
		},
		PopSegments: []string{
			"local", "argument", "this", "that", "static", "temp", "pointer",
		},
	}
}

func contains(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
