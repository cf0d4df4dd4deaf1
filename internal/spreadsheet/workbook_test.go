package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"go-job-listing-scraper/internal/models"
)

var samplePostings = []models.Posting{
	{
		HashID:        "h1",
		JobLink:       "https://www.indeed.com/rc/clk?jk=1",
		Title:         "Go Developer",
		Company:       "Acme",
		Location:      "Remote",
		SalaryPreview: models.NotAvailable,
		PostedDate:    "03/08/2024",
		Applied:       models.AppliedYes,
	},
	{
		HashID:     "h2",
		JobLink:    "https://www.indeed.com/viewjob?jk=2",
		Title:      "Platform Engineer",
		Company:    "Beta",
		PostedDate: "03/09/2024",
		Applied:    models.AppliedSkip,
	},
}

var sampleFields = []models.Field{
	models.FieldTitle, models.FieldCompany, models.FieldLocation, models.FieldSalaryPreview,
	models.FieldJobLink, models.FieldPostedDate, models.FieldApplied, models.FieldHashID,
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")

	require.NoError(t, Write(path, Build(samplePostings, sampleFields)))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "h2", loaded[0].HashID)
	assert.Equal(t, models.AppliedSkip, loaded[0].Applied)
	assert.Equal(t, samplePostings[0], loaded[1])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file is left behind")
}

func TestWrite_LinksAndTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	require.NoError(t, Write(path, Build(samplePostings, sampleFields)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	ok, link, err := f.GetCellHyperLink(SheetName, "E2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=2", link)

	tables, err := f.GetTables(SheetName)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, TableName, tables[0].Name)
	assert.Equal(t, "A1:H3", tables[0].Range)
}

func TestWrite_StatusHighlights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	require.NoError(t, Write(path, Build(samplePostings, sampleFields)))
	require.NoError(t, Write(path, Build(samplePostings, sampleFields)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	formats, err := f.GetConditionalFormats(SheetName)
	require.NoError(t, err)
	require.Len(t, formats, 1, "rewriting the workbook does not stack rule ranges")

	rules, ok := formats["A2:H3"]
	require.True(t, ok, "rules cover the data rows of every column")
	require.Len(t, rules, 3)

	var criteria []string
	for _, rule := range rules {
		assert.Equal(t, "formula", rule.Type)
		criteria = append(criteria, rule.Criteria)
	}
	assert.ElementsMatch(t, []string{`$G2="Yes"`, `$G2="No"`, `$G2="Skip"`}, criteria)
}

func TestWrite_ColumnsFollowConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	require.NoError(t, Write(path, Build(samplePostings, sampleFields)))

	loaded, err := Load(path)
	require.NoError(t, err)

	reordered := []models.Field{models.FieldCompany, models.FieldTitle}
	require.NoError(t, Write(path, Build(loaded, reordered)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"company", "title", "hash_id", "applied"}, rows[0])
	assert.Equal(t, []string{"Beta", "Platform Engineer", "h2", "Skip"}, rows[1])
}

func TestWrite_FailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.xlsx")
	require.NoError(t, Write(path, Build(samplePostings, sampleFields)))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := Build(samplePostings, sampleFields)
	bad.Name = "bad/name"
	assert.Error(t, Write(path, bad))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "jobs.xlsx")
	assert.Error(t, Write(path, Build(samplePostings, sampleFields)))
}

func TestLoad_MissingFile(t *testing.T) {
	postings, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.NoError(t, err)
	assert.Empty(t, postings)
}

func TestLoad_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
