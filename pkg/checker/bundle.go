package checker

// Pair is one dictionary entry kept in file order.
type Pair struct {
	Term string
	Text string
}

// TermEntry is a glossary mapping from a source term to its approved rendering.
type TermEntry struct {
	Source string `json:"ja" yaml:"ja"`
	Target string `json:"zh" yaml:"zh"`
	Note   string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Bundle is the dictionary view handed to one check. It is never mutated by the
// engine and can be shared between concurrent checks.
type Bundle struct {
	// ErrorTerms maps a known-incorrect substring to its replacement.
	ErrorTerms []Pair
	// WarningTerms maps a group of confusable characters to a description.
	WarningTerms []Pair
	// RepeatExempt holds characters allowed to repeat consecutively.
	RepeatExempt map[rune]struct{}
	// MistranslationHints maps commonly mistranslated terms to reference notes.
	MistranslationHints []Pair
	// Terminology is the project glossary.
	Terminology []TermEntry
}

// NewRuneSet builds a character set from single-character strings. Longer entries
// can never equal one character and are ignored.
func NewRuneSet(chars []string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, s := range chars {
		r := []rune(s)
		if len(r) == 1 {
			set[r[0]] = struct{}{}
		}
	}
	return set
}

func (b *Bundle) isRepeatExempt(ch rune) bool {
	if b == nil || b.RepeatExempt == nil {
		return false
	}
	_, ok := b.RepeatExempt[ch]
	return ok
}
