package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetsExperienceRequirement(t *testing.T) {
	tests := []struct {
		name        string
		description string
		userMax     string
		expected    bool
	}{
		{name: "above user max", description: "5+ years of experience required", userMax: "3", expected: false},
		{name: "within user max", description: "5+ years of experience required", userMax: "10", expected: true},
		{name: "user max unset", description: "5+ years of experience required", userMax: "", expected: false},
		{name: "user max not a number", description: "5 years of experience", userMax: "five", expected: false},
		{name: "no figure passes", description: "Great team, remote friendly", userMax: "", expected: true},
		{name: "equal passes", description: "3 years of Go", userMax: "3", expected: true},
		{name: "minimum of several", description: "7 years overall, 2 years of Go", userMax: "2", expected: true},
		{name: "filler words", description: "3 or more years in backend", userMax: "2", expected: false},
		{name: "plus word", description: "4 plus years", userMax: "4", expected: true},
		{name: "case insensitive", description: "6 YEARS", userMax: "5", expected: false},
		{name: "na marker", description: "N/A", userMax: "", expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MeetsExperienceRequirement(tt.description, tt.userMax))
		})
	}
}

func TestRequiredYears(t *testing.T) {
	assert.Equal(t, []int{5, 2}, RequiredYears("5+ years of Java and 2 years of Go"))
	assert.Empty(t, RequiredYears("years of fun"))
}
