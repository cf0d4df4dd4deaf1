package filter

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NewPhraseSet builds the excluded-phrase set, normalizing keywords the same
// way titles are split.
func NewPhraseSet(phrases []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, p := range phrases {
		p = strings.Join(titleWords(p), " ")
		if p != "" {
			set.Add(p)
		}
	}
	return set
}

// IsExcludedTitle reports whether any single word of title, or any pair of
// adjacent words, is in excluded. Phrases of three or more words never match.
func IsExcludedTitle(excluded mapset.Set[string], title string) bool {
	if excluded == nil || excluded.Cardinality() == 0 {
		return false
	}
	words := titleWords(title)
	for i, w := range words {
		if excluded.Contains(w) {
			return true
		}
		if i+1 < len(words) && excluded.Contains(w+" "+words[i+1]) {
			return true
		}
	}
	return false
}

func titleWords(title string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, foldText(title))
	return strings.Fields(cleaned)
}

// foldText lowercases s and strips combining marks ("Sénior" -> "senior").
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}
