package checker

import (
	"strings"
	"unicode/utf8"
)

const (
	// HintSeparator joins hint lines inside one cell.
	HintSeparator = "\r\n"
	// RepeatHintPrefix starts the repeated-character warning.
	RepeatHintPrefix = "出現疊字"
	// MistranslationHeader precedes the mistranslation hints in spec mode.
	MistranslationHeader = "【易塞翻詞，提供參考釋義】"

	defaultRowHeight = 20
	lineHeight       = 20
	charWidth        = 2
)

var cleaner = strings.NewReplacer("\r\n", "", "\n", "", "　", "")

// CleanText removes line breaks and ideographic spaces before terminology matching.
func CleanText(s string) string {
	return cleaner.Replace(s)
}

// CommonResult holds the hints of one cell in common mode.
type CommonResult struct {
	Errors   []string
	Warnings []string
	// Marked holds characters to highlight in the input cell.
	Marked map[rune]struct{}
}

// CheckCommon runs the error, confusable and repeat scans over raw cell text.
func (e *Engine) CheckCommon(text string) CommonResult {
	res := CommonResult{Marked: make(map[rune]struct{})}

	for _, p := range e.bundle.ErrorTerms {
		if p.Term != "" && strings.Contains(text, p.Term) {
			res.Errors = append(res.Errors, p.Term+"→"+p.Text)
		}
	}

	// Only the first present character of each term is marked.
	for _, p := range e.bundle.WarningTerms {
		for _, ch := range p.Term {
			if strings.ContainsRune(text, ch) {
				res.Marked[ch] = struct{}{}
				res.Warnings = append(res.Warnings, p.Term+"："+p.Text)
				break
			}
		}
	}

	if repeats := e.repeatedChars(text); len(repeats) > 0 {
		res.Warnings = append(res.Warnings, strings.Join(append([]string{RepeatHintPrefix}, repeats...), " "))
	}
	return res
}

func (e *Engine) repeatedChars(text string) []string {
	runes := []rune(text)
	seen := make(map[rune]struct{})
	var repeats []string
	for i := 1; i < len(runes); i++ {
		ch := runes[i]
		if e.bundle.isRepeatExempt(ch) {
			continue
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		if runes[i-1] == ch {
			seen[ch] = struct{}{}
			repeats = append(repeats, string(ch))
		}
	}
	return repeats
}

// CheckTerms returns the terminology hints of one cell, followed by the
// mistranslation hints when includeHints is set.
func (e *Engine) CheckTerms(text string, includeHints bool) []string {
	cleaned := CleanText(text)

	var hints []string
	for i, entry := range e.bundle.Terminology {
		src := e.cleanedSources[i]
		if src == "" || !strings.Contains(cleaned, src) {
			continue
		}
		note := ""
		if entry.Note != "" {
			note = "(" + entry.Note + ")"
		}
		hints = append(hints, entry.Source+note+"："+entry.Target)
	}

	if !includeHints {
		return hints
	}

	var extra []string
	for _, p := range e.bundle.MistranslationHints {
		if _, ok := e.termSources[p.Term]; ok {
			continue
		}
		if p.Term != "" && strings.Contains(cleaned, p.Term) {
			extra = append(extra, p.Term+"："+p.Text)
		}
	}
	if len(extra) > 0 {
		hints = append(hints, MistranslationHeader)
		hints = append(hints, extra...)
	}
	return hints
}

// EstimateWidth is twice the longest hint, counted in characters.
func EstimateWidth(hints []string) float64 {
	longest := 0
	for _, h := range hints {
		if n := utf8.RuneCountInString(h); n > longest {
			longest = n
		}
	}
	return float64(charWidth * longest)
}

// EstimateHeight allots one line per hint.
func EstimateHeight(hints []string) float64 {
	return float64(lineHeight * len(hints))
}
