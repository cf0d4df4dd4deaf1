// Package indeed holds everything specific to the Indeed results template:
// the search address, the card selectors and the permalink shapes.
package indeed

import (
	"net/url"
	"strings"

	"go-job-listing-scraper/internal/scraper"
)

const BaseURL = "https://www.indeed.com"

const (
	// ResultCardSelector matches one result card; its presence means the
	// results have rendered.
	ResultCardSelector = "div.job_seen_beacon"
	LinkSelector       = "a"
)

// RoleSelectors maps each card role to the node holding its text.
var RoleSelectors = map[scraper.Role]string{
	scraper.RoleTitle:       "h2.jobTitle",
	scraper.RoleCompany:     `span[data-testid="company-name"]`,
	scraper.RoleLocation:    `div[data-testid="text-location"]`,
	scraper.RoleSalary:      `[class*="salary-snippet-container"] div[data-testid="attribute_snippet_testid"]`,
	scraper.RolePostedDate:  `span[data-testid="myJobsStateDate"]`,
	scraper.RoleDescription: "div.job-snippet",
}

var permalinkPrefixes = []string{
	BaseURL + "/rc/clk?jk=",
	BaseURL + "/viewjob?jk=",
}

// IsJobPermalink reports whether a canonical link points at a posting rather
// than an ad or a redirect.
func IsJobPermalink(link string) bool {
	for _, prefix := range permalinkPrefixes {
		if strings.HasPrefix(link, prefix) {
			return true
		}
	}
	return false
}

// Criteria is the search a crawl starts from.
type Criteria struct {
	Position         string `yaml:"position" json:"position"`
	Location         string `yaml:"location" json:"location"`
	ExperienceLevel  string `yaml:"experience_level" json:"experience_level"`
	JobType          string `yaml:"job_type" json:"job_type"`
	MaxDaysPostedAgo string `yaml:"max_days_posted_ago" json:"max_days_posted_ago"`
}

// BuildSearchURL renders the first results page for c.
func BuildSearchURL(c Criteria) string {
	var b strings.Builder
	b.WriteString(BaseURL + "/jobs?q=")
	b.WriteString(url.QueryEscape(strings.TrimSpace(c.Position)))
	b.WriteString("&l=")
	b.WriteString(url.QueryEscape(strings.TrimSpace(c.Location)))

	level := parenthesize(c.ExperienceLevel)
	jobType := parenthesize(c.JobType)
	if level != "" || jobType != "" {
		b.WriteString("&sc=0kf:")
		if level != "" {
			b.WriteString("explvl" + level)
		}
		if jobType != "" {
			b.WriteString("jt" + jobType)
		}
		b.WriteString(";")
	}

	if days := strings.TrimSpace(c.MaxDaysPostedAgo); days != "" {
		b.WriteString("&fromage=" + url.QueryEscape(days))
	}
	return b.String()
}

// Summary is the value stamped into each posting's search_criteria column.
func (c Criteria) Summary() string {
	var parts []string
	for _, v := range []string{c.Position, c.Location, trimParens(c.ExperienceLevel), trimParens(c.JobType)} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if days := strings.TrimSpace(c.MaxDaysPostedAgo); days != "" {
		parts = append(parts, "last "+days+" days")
	}
	return strings.Join(parts, " | ")
}

// parenthesize accepts both "ENTRY_LEVEL" and "(ENTRY_LEVEL)".
func parenthesize(v string) string {
	v = trimParens(v)
	if v == "" {
		return ""
	}
	return "(" + v + ")"
}

func trimParens(v string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v), "("), ")"))
}
