package catalog

import (
	"testing"

	"carmodel-inventory/internal/model"

	"github.com/stretchr/testify/assert"
)

func fixtures() []model.Record {
	return []model.Record{
		{ModelName: "Civic", ModelCode: "HC1"},
		{ModelName: "Accord", ModelCode: "HA2"},
	}
}

func modelNames(records []model.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ModelName)
	}
	return out
}

func TestFilterByName(t *testing.T) {
	assert.Equal(t, []string{"Accord"}, modelNames(Filter(fixtures(), "ac")))
	assert.Equal(t, []string{"Accord"}, modelNames(Filter(fixtures(), "ACC")))
}

func TestFilterByCode(t *testing.T) {
	assert.Equal(t, []string{"Civic"}, modelNames(Filter(fixtures(), "hc")))
	assert.Equal(t, []string{"Civic", "Accord"}, modelNames(Filter(fixtures(), "h")))
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	records := fixtures()
	assert.Equal(t, records, Filter(records, ""))
}

func TestFilterNoMatch(t *testing.T) {
	out := Filter(fixtures(), "ZZZ")
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := fixtures()
	Filter(records, "ac")
	assert.Equal(t, fixtures(), records)
}
