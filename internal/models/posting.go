package models

import "strings"

// Field names one column of the persisted table.
type Field string

const (
	FieldHashID         Field = "hash_id"
	FieldJobLink        Field = "job_link"
	FieldTitle          Field = "title"
	FieldCompany        Field = "company"
	FieldLocation       Field = "location"
	FieldSalaryPreview  Field = "salary_preview"
	FieldDescription    Field = "description"
	FieldPostedDate     Field = "posted_date"
	FieldApplied        Field = "applied"
	FieldSearchCriteria Field = "search_criteria"
)

// KnownFields lists every field a Posting carries, in the default column order.
var KnownFields = []Field{
	FieldTitle,
	FieldCompany,
	FieldLocation,
	FieldSalaryPreview,
	FieldJobLink,
	FieldPostedDate,
	FieldApplied,
	FieldSearchCriteria,
	FieldDescription,
	FieldHashID,
}

// IsKnown reports whether f maps onto a Posting field.
func (f Field) IsKnown() bool {
	_, ok := accessors[f]
	return ok
}

// Applied status values shown in the spreadsheet.
const (
	AppliedYes  = "Yes"
	AppliedNo   = "No"
	AppliedSkip = "Skip"
)

// NotAvailable marks a value the listing did not provide.
const NotAvailable = "N/A"

// Posting is one job listing as stored in the record table.
type Posting struct {
	HashID         string `json:"hash_id" yaml:"hash_id"`
	JobLink        string `json:"job_link" yaml:"job_link"`
	Title          string `json:"title" yaml:"title"`
	Company        string `json:"company" yaml:"company"`
	Location       string `json:"location" yaml:"location"`
	SalaryPreview  string `json:"salary_preview" yaml:"salary_preview"`
	Description    string `json:"description" yaml:"description"`
	PostedDate     string `json:"posted_date" yaml:"posted_date"`
	Applied        string `json:"applied" yaml:"applied"`
	SearchCriteria string `json:"search_criteria" yaml:"search_criteria"`
}

type accessor struct {
	get func(p *Posting) string
	set func(p *Posting, v string)
}

var accessors = map[Field]accessor{
	FieldHashID:         {func(p *Posting) string { return p.HashID }, func(p *Posting, v string) { p.HashID = v }},
	FieldJobLink:        {func(p *Posting) string { return p.JobLink }, func(p *Posting, v string) { p.JobLink = v }},
	FieldTitle:          {func(p *Posting) string { return p.Title }, func(p *Posting, v string) { p.Title = v }},
	FieldCompany:        {func(p *Posting) string { return p.Company }, func(p *Posting, v string) { p.Company = v }},
	FieldLocation:       {func(p *Posting) string { return p.Location }, func(p *Posting, v string) { p.Location = v }},
	FieldSalaryPreview:  {func(p *Posting) string { return p.SalaryPreview }, func(p *Posting, v string) { p.SalaryPreview = v }},
	FieldDescription:    {func(p *Posting) string { return p.Description }, func(p *Posting, v string) { p.Description = v }},
	FieldPostedDate:     {func(p *Posting) string { return p.PostedDate }, func(p *Posting, v string) { p.PostedDate = v }},
	FieldApplied:        {func(p *Posting) string { return p.Applied }, func(p *Posting, v string) { p.Applied = v }},
	FieldSearchCriteria: {func(p *Posting) string { return p.SearchCriteria }, func(p *Posting, v string) { p.SearchCriteria = v }},
}

// Get returns the value of f, or "" for an unknown field.
func (p *Posting) Get(f Field) string {
	if a, ok := accessors[f]; ok {
		return a.get(p)
	}
	return ""
}

// Set assigns v to f. Unknown fields are ignored.
func (p *Posting) Set(f Field, v string) {
	if a, ok := accessors[f]; ok {
		a.set(p, v)
	}
}

// ParseFields converts configured column names into Fields, trimming blanks and
// dropping duplicates. Unknown names are kept so they still occupy a column.
func ParseFields(names []string) []Field {
	seen := make(map[Field]bool, len(names))
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		f := Field(strings.TrimSpace(n))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields
}
