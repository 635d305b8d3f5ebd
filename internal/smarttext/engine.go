// Package smarttext rewrites free-text input as it is typed: US spellings
// become UK spellings and trade abbreviations get their canonical casing.
// The auto-apply path only ever touches the word just completed by a
// boundary character; the suggestion path scans the whole buffer.
package smarttext

import (
	"strings"
	"unicode"
)

// Kind classifies which dictionary produced a correction.
type Kind string

const (
	KindSpelling     Kind = "spelling"
	KindAbbreviation Kind = "abbreviation"
)

// Suggestion is a detected, not-yet-applied correction opportunity.
// Start and End are byte offsets into the buffer; the span [Start,End)
// covers exactly Original.
type Suggestion struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Kind        Kind   `json:"kind"`
}

// DismissKey identifies a dismissed suggestion. Dismissal is positional
// and session-scoped: the same misspelling elsewhere in the buffer stays
// suggested.
type DismissKey struct {
	Start    int    `json:"start"`
	Original string `json:"original"`
}

// Result is the outcome of a ProcessText call. Applied is 0 or 1; the
// caller recomputes its cursor as cursor + (len(Text) - len(input)).
type Result struct {
	Text    string `json:"text"`
	Applied int    `json:"applied"`
}

// Engine holds the dictionaries and the session's dismissed suggestions.
// Engines are independent; construct one per editing session.
type Engine struct {
	spellings map[string]string
	abbrevs   map[string]string
	dismissed map[DismissKey]struct{}
}

// NewEngine constructs an engine with the built-in dictionaries.
func NewEngine() *Engine {
	return &Engine{
		spellings: ukSpellings,
		abbrevs:   abbreviations,
		dismissed: make(map[DismissKey]struct{}),
	}
}

// ProcessText inspects the word immediately before the boundary character
// at cursor-1 and corrects it in place if it matches a dictionary. Only
// that single span is touched, so the length delta of the returned text
// is exactly the delta introduced by the replacement. A cursor beyond the
// buffer clamps to the end; a cursor not preceded by a boundary, or a
// boundary preceded by another boundary, is a no-op.
func (e *Engine) ProcessText(buffer string, cursor int) Result {
	if cursor > len(buffer) {
		cursor = len(buffer)
	}
	if cursor <= 0 {
		return Result{Text: buffer}
	}
	if !isBoundary(buffer[cursor-1]) {
		return Result{Text: buffer}
	}

	end := cursor - 1
	start := end
	for start > 0 && !isBoundary(buffer[start-1]) {
		start--
	}
	if start == end {
		// Consecutive boundary characters; there is no word to correct.
		return Result{Text: buffer}
	}

	match, ok := e.matchWord(buffer, start, end)
	if !ok {
		return Result{Text: buffer}
	}

	return Result{
		Text:    buffer[:match.Start] + match.Replacement + buffer[match.End:],
		Applied: 1,
	}
}

// CheckForSuggestions scans the whole buffer and returns every remaining
// correction opportunity in order, excluding spans dismissed this
// session. Truncation for display is the caller's concern; the full set
// is always returned.
func (e *Engine) CheckForSuggestions(buffer string) []Suggestion {
	var suggestions []Suggestion
	i := 0
	for i < len(buffer) {
		if isBoundary(buffer[i]) {
			i++
			continue
		}
		start := i
		for i < len(buffer) && !isBoundary(buffer[i]) {
			i++
		}
		match, ok := e.matchWord(buffer, start, i)
		if !ok {
			continue
		}
		if _, skip := e.dismissed[DismissKey{Start: match.Start, Original: match.Original}]; skip {
			continue
		}
		suggestions = append(suggestions, match)
	}
	return suggestions
}

// ApplySuggestion replaces exactly the span [Start,End) with the
// replacement. Out-of-range spans leave the buffer untouched.
func (e *Engine) ApplySuggestion(buffer string, s Suggestion) string {
	if s.Start < 0 || s.End < s.Start || s.End > len(buffer) {
		return buffer
	}
	return buffer[:s.Start] + s.Replacement + buffer[s.End:]
}

// DismissSuggestion excludes this exact {start, original} pair from
// future scans for the rest of the session.
func (e *Engine) DismissSuggestion(s Suggestion) {
	e.dismissed[DismissKey{Start: s.Start, Original: s.Original}] = struct{}{}
}

// Dismissed exports the session's dismissal keys so a caller can persist
// them between requests.
func (e *Engine) Dismissed() []DismissKey {
	keys := make([]DismissKey, 0, len(e.dismissed))
	for key := range e.dismissed {
		keys = append(keys, key)
	}
	return keys
}

// RestoreDismissals seeds the engine with previously persisted keys.
func (e *Engine) RestoreDismissals(keys []DismissKey) {
	for _, key := range keys {
		e.dismissed[key] = struct{}{}
	}
}

// matchWord trims surrounding punctuation from buffer[start:end) and
// looks the core up in the dictionaries, spelling first. The returned
// suggestion spans only the core word.
func (e *Engine) matchWord(buffer string, start, end int) (Suggestion, bool) {
	word := buffer[start:end]
	lead := 0
	for lead < len(word) && isPunct(word[lead]) {
		lead++
	}
	trail := len(word)
	for trail > lead && isPunct(word[trail-1]) {
		trail--
	}
	core := word[lead:trail]
	if core == "" {
		return Suggestion{}, false
	}

	lower := strings.ToLower(core)

	if replacement, ok := e.spellings[lower]; ok {
		return Suggestion{
			Start:       start + lead,
			End:         start + trail,
			Original:    core,
			Replacement: matchCase(core, replacement),
			Kind:        KindSpelling,
		}, true
	}

	if canonical, ok := e.abbrevs[lower]; ok && core != canonical {
		return Suggestion{
			Start:       start + lead,
			End:         start + trail,
			Original:    core,
			Replacement: canonical,
			Kind:        KindAbbreviation,
		}, true
	}

	return Suggestion{}, false
}

// matchCase capitalises the replacement's first letter when the source
// word was capitalised.
func matchCase(source, replacement string) string {
	if source == "" || replacement == "" {
		return replacement
	}
	first := rune(source[0])
	if unicode.IsUpper(first) {
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	}
	return replacement
}

func isBoundary(b byte) bool {
	switch b {
	case ' ', '\n', '\t', '\r':
		return true
	}
	return false
}

func isPunct(b byte) bool {
	switch b {
	case '.', ',', ';', ':', '!', '?', '(', ')', '"', '\'':
		return true
	}
	return false
}
