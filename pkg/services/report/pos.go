package report

import (
	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// parsePOS emits one row per line item. Order-level fields (creation
// date, COD, total quantity) appear only on the first item's row;
// subsequent rows of the same order leave them blank.
func parsePOS(t *domain.Table, orders []api.Order) int {
	appended := 0
	for _, order := range orders {
		confirmed, ok := confirmedAt(order)
		if !ok {
			continue
		}
		createdDate, err := formatDate(confirmed)
		if err != nil {
			continue
		}

		for i, item := range order.Items {
			row := blankRow(len(t.Columns))
			if i == 0 {
				row[0] = createdDate
				row[1] = order.COD
				row[2] = order.TotalQuantity
			}
			row[3] = item.Quantity
			row[4] = item.VariationInfo.ProductDisplayID
			row[5] = item.VariationInfo.DisplayID

			t.Rows = append(t.Rows, row)
			appended++
		}
	}
	return appended
}
