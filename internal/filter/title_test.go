package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExcludedTitle(t *testing.T) {
	excluded := NewPhraseSet([]string{"senior", "Machine Learning", "sr", "staff"})

	tests := []struct {
		name     string
		title    string
		expected bool
	}{
		{name: "single word", title: "Senior Software Engineer", expected: true},
		{name: "bigram", title: "Machine Learning Engineer", expected: true},
		{name: "no match", title: "Software Engineer", expected: false},
		{name: "punctuation stripped", title: "senior: engineer", expected: true},
		{name: "mixed case", title: "SENIOR software engineer", expected: true},
		{name: "abbreviation with dot", title: "Sr. Backend Developer", expected: true},
		{name: "diacritics folded", title: "Sénior Développeur", expected: true},
		{name: "word boundary", title: "Seniority Analyst", expected: false},
		{name: "split by hyphen", title: "Back-End (Staff)", expected: true},
		{name: "empty title", title: "", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExcludedTitle(excluded, tt.title))
		})
	}
}

func TestIsExcludedTitle_ThreeWordPhraseNeverMatches(t *testing.T) {
	excluded := NewPhraseSet([]string{"site reliability engineer"})

	assert.False(t, IsExcludedTitle(excluded, "Site Reliability Engineer"))
}

func TestIsExcludedTitle_CombinedKeywords(t *testing.T) {
	excluded := NewPhraseSet([]string{"machine learning", "project engineer", "civil engineer"})

	assert.True(t, IsExcludedTitle(excluded, "machine learning engineer"))
	assert.False(t, IsExcludedTitle(excluded, "civil eng"))
}

func TestIsExcludedTitle_EmptySet(t *testing.T) {
	assert.False(t, IsExcludedTitle(nil, "Senior Engineer"))
	assert.False(t, IsExcludedTitle(NewPhraseSet(nil), "Senior Engineer"))
}

func TestNewPhraseSet_Normalizes(t *testing.T) {
	set := NewPhraseSet([]string{"  Machine   Learning ", "", "SENIOR", "Sr.", "Séñior"})

	assert.Equal(t, 3, set.Cardinality())
	assert.True(t, set.Contains("machine learning"))
	assert.True(t, set.Contains("senior"))
	assert.True(t, set.Contains("sr"))
}
