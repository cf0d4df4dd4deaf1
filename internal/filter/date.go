package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PostedDateLayout is how resolved posting dates are stored.
const PostedDateLayout = "01/02/2006"

// Layouts accepted when reading dates back from the table.
var postedDateLayouts = []string{PostedDateLayout, "01/02/06", "2006-01-02", "1/2/2006", "1/2/06"}

var daysAgoRegex = regexp.MustCompile(`(\d+)\+?\s*days?\s+ago`)

// ParsePostedDate resolves a relative phrase such as "Today", "Just posted",
// "Posted 3 days ago" or "30+ days ago" against now. Anything it cannot read
// resolves to now.
func ParsePostedDate(phrase string, now time.Time) string {
	today := now.Format(PostedDateLayout)
	text := strings.ToLower(strings.Join(strings.Fields(phrase), " "))

	switch {
	case text == "", strings.Contains(text, "today"), strings.Contains(text, "just posted"):
		return today
	case strings.HasPrefix(text, "visited"):
		return today
	}

	if match := daysAgoRegex.FindStringSubmatch(text); match != nil {
		days, err := strconv.Atoi(match[1])
		if err == nil {
			return now.AddDate(0, 0, -days).Format(PostedDateLayout)
		}
	}
	return today
}

// ParseStoredDate reads a date written by ParsePostedDate or typed by hand.
func ParseStoredDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
