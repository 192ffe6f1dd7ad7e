package report

import (
	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// parseRemain emits one row per stock variation. Variations without a
// warehouse entry count as zero on hand and zero received.
func parseRemain(t *domain.Table, variations []api.Variation) int {
	appended := 0
	for _, variation := range variations {
		row := blankRow(len(t.Columns))

		if product := variation.Product; product != nil {
			row[0] = product.DisplayID
			if len(product.Categories) > 0 {
				row[3] = product.Categories[0].Name
			}
		}

		row[1] = variation.DisplayID

		if len(variation.VariationsWarehouses) > 0 {
			warehouse := variation.VariationsWarehouses[0]
			row[2] = warehouse.ActualRemainQuantity
			row[4] = warehouse.TotalQuantity
		} else {
			row[2] = 0
			row[4] = 0
		}

		t.Rows = append(t.Rows, row)
		appended++
	}
	return appended
}
