package extract

import (
	"strings"
	"unicode/utf8"
)

// MinTextLength is the shortest body, in characters, that survives filtering.
const MinTextLength = 32

// FilterPrefix lists body openings left behind by error pages, consent walls
// and serialized payloads. "[" and "{" catch text that is itself JSON.
var FilterPrefix = []string{
	"Auth Failed",
	"466 Too many requests",
	"404 Not Found",
	"403 Forbidden",
	"Page not found",
	"Get Directions Search",
	"X JavaScript is not available",
	"Saved Items",
	"My Doctor Online Close",
	"Internal server error",
	"Sign in Region Choose",
	"Pinterest Pinterest",
	"Get Care | My Doctor Online Close Internet Explorer not supported",
	"[", "{",
}

// FilterText lists fragments that disqualify a body wherever they occur.
var FilterText = []string{
	"Internet Explorer not supported",
	"Page not found",
	"Internal server error",
}

// ContainText holds domain keywords for manual relevance review.
// Filtering does not consult it.
var ContainText = []string{
	"eye",
	"itchy",
	"bump",
	"episcleritis", "Episcleritis",
	"ophthalmology", "Ophthalmology",
}

// Rules is a read-only set of drop rules.
type Rules struct {
	Prefixes  []string
	Fragments []string
	MinLength int
}

// DefaultRules returns the process-wide rule set.
func DefaultRules() Rules {
	return Rules{
		Prefixes:  FilterPrefix,
		Fragments: FilterText,
		MinLength: MinTextLength,
	}
}

// ShouldDrop reports whether a stripped body fails any rule.
func (r Rules) ShouldDrop(text string) bool {
	return r.hasFragment(text) || r.hasPrefix(text) || r.tooShort(text)
}

func (r Rules) hasFragment(text string) bool {
	for _, fragment := range r.Fragments {
		if strings.Contains(text, fragment) {
			return true
		}
	}
	return false
}

func (r Rules) hasPrefix(text string) bool {
	for _, prefix := range r.Prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func (r Rules) tooShort(text string) bool {
	return utf8.RuneCountInString(text) < r.MinLength
}
