package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostingGetSet(t *testing.T) {
	var p Posting
	for _, f := range KnownFields {
		p.Set(f, string(f)+"-value")
	}
	for _, f := range KnownFields {
		assert.Equal(t, string(f)+"-value", p.Get(f))
	}

	p.Set(Field("rating"), "5")
	assert.Equal(t, "", p.Get(Field("rating")))
}

func TestParseFields(t *testing.T) {
	fields := ParseFields([]string{" title", "company", "", "title", "rating"})
	assert.Equal(t, []Field{FieldTitle, FieldCompany, Field("rating")}, fields)
	assert.True(t, fields[0].IsKnown())
	assert.False(t, fields[2].IsKnown())
}
