package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnguyenvan/timegroup/pkg/models/api"
)

func TestParseRemain(t *testing.T) {
	variations := []api.Variation{
		{
			DisplayID: "MM1",
			Product: &api.ProductInfo{
				DisplayID:  "SP1",
				Categories: []api.Category{{Name: "Áo"}, {Name: "Hè"}},
			},
			VariationsWarehouses: []api.VariationWarehouse{
				{ActualRemainQuantity: 12, TotalQuantity: 40},
				{ActualRemainQuantity: 99, TotalQuantity: 99},
			},
		},
		{
			// No product, no warehouse entry.
			DisplayID: "MM2",
		},
	}

	table := KindRemainProduct.NewTable()
	n := KindRemainProduct.ParseVariations(table, variations)
	require.Equal(t, 2, n)

	first := table.Rows[0]
	assert.Equal(t, "SP1", first[0])
	assert.Equal(t, "MM1", first[1])
	// First warehouse entry wins.
	assert.Equal(t, 12, first[2])
	// First category wins.
	assert.Equal(t, "Áo", first[3])
	assert.Equal(t, 40, first[4])

	second := table.Rows[1]
	assert.Equal(t, "", second[0])
	assert.Equal(t, "MM2", second[1])
	assert.Equal(t, 0, second[2])
	assert.Equal(t, "", second[3])
	assert.Equal(t, 0, second[4])
}
