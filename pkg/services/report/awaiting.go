package report

import (
	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// Stock-sufficiency labels shown in the awaiting-order report.
const (
	stockSufficient   = "Đủ hàng"
	stockInsufficient = "Thiếu hàng"
)

// parseAwaiting emits one row per line item with sparse order headers,
// plus per-item price, discount and a stock-sufficiency flag: an item is
// sufficient when the requested quantity matches what made it into the
// cart.
func parseAwaiting(t *domain.Table, orders []api.Order) int {
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
				row[4] = order.ID
				row[5] = order.TotalQuantity
				row[10] = order.COD
			}

			row[1] = item.VariationInfo.ProductDisplayID
			row[2] = item.VariationInfo.DisplayID
			row[3] = productDisplayName(item.VariationInfo)
			row[6] = item.Quantity
			row[7] = item.VariationInfo.RetailPrice
			row[8] = item.DiscountEachProduct

			if item.Quantity == item.AddedToCartQuantity {
				row[9] = stockSufficient
			} else {
				row[9] = stockInsufficient
			}

			t.Rows = append(t.Rows, row)
			appended++
		}
	}
	return appended
}
