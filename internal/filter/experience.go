package filter

import (
	"regexp"
	"strconv"
	"strings"
)

// A number, an optional "+", up to two filler words ("or more", "plus"), then "years".
var yearsRegex = regexp.MustCompile(`(?i)\b(\d+)\s*\+?\s*(?:[a-z]+\s+){0,2}?years\b`)

// RequiredYears returns every years-of-experience figure stated in description.
func RequiredYears(description string) []int {
	var years []int
	for _, m := range yearsRegex.FindAllStringSubmatch(description, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		years = append(years, n)
	}
	return years
}

// MeetsExperienceRequirement passes postings that state no experience
// requirement, and otherwise requires userMaxYears to cover the smallest
// stated figure. An unset or non-numeric userMaxYears rejects any posting
// that states a figure.
func MeetsExperienceRequirement(description, userMaxYears string) bool {
	years := RequiredYears(description)
	if len(years) == 0 {
		return true
	}
	minRequired := years[0]
	for _, y := range years[1:] {
		if y < minRequired {
			minRequired = y
		}
	}

	userMax, err := strconv.Atoi(strings.TrimSpace(userMaxYears))
	if err != nil {
		return false
	}
	return userMax >= minRequired
}
