package report

import (
	"fmt"
	"strings"

	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// ghtkWaybill is the last 10 characters of the partner extend code.
func ghtkWaybill(p *api.Partner) string {
	code := p.ExtendCode
	if len(code) > 10 {
		return code[len(code)-10:]
	}
	return code
}

// vtpWaybill is the dedicated Viettel Post order number.
func vtpWaybill(p *api.Partner) string {
	return p.OrderNumberVTP
}

// parseCarrier emits line-item rows for orders handed to the given
// delivery partner; orders belonging to any other partner are skipped
// entirely. Besides the sparse order header it fills a combined product
// summary covering every item of the order.
func parseCarrier(
	t *domain.Table,
	orders []api.Order,
	partnerID int,
	waybill func(*api.Partner) string,
) int {
	appended := 0
	for _, order := range orders {
		partner := order.Partner
		if partner == nil || partner.PartnerID != partnerID {
			continue
		}

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
				row[0] = waybill(partner)
				row[6] = combinedSummary(order.Items, partnerID)
				row[7] = order.TotalQuantity
				row[9] = order.COD
				row[14] = createdDate

				if order.Customer != nil {
					row[1] = order.Customer.Name
				}
				row[2] = firstPhoneNumber(order.Customer)

				if order.Page != nil {
					row[10] = order.Page.Name
					row[11] = order.Page.ID
				}
				if order.AssigningSeller != nil {
					row[12] = order.AssigningSeller.Name
				}
				row[13] = confirmStaff(order)
				if order.WarehouseInfo != nil {
					row[15] = order.WarehouseInfo.Name
				}
				if order.TimeSendPartner != "" {
					if sent, err := formatDate(order.TimeSendPartner); err == nil {
						row[16] = sent
					}
				}
			}

			row[3] = item.VariationInfo.ProductDisplayID
			row[4] = item.VariationInfo.DisplayID
			row[5] = productDisplayName(item.VariationInfo)
			row[8] = item.Quantity

			t.Rows = append(t.Rows, row)
			appended++
		}
	}
	return appended
}

// combinedSummary concatenates every item's compact product description.
// The VTP sheet historically carries an item-count suffix.
func combinedSummary(items []api.OrderItem, partnerID int) string {
	var parts []string
	for _, item := range items {
		if summary := productSummary(item.VariationInfo); summary != "" {
			parts = append(parts, summary)
		}
	}
	joined := strings.Join(parts, ", ")
	if partnerID == partnerVTP {
		joined = fmt.Sprintf("%s x %d", joined, len(items))
	}
	return joined
}
