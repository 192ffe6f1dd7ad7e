package report

import (
	"fmt"

	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// Kind is the closed set of report variants. Each kind carries its fixed
// column schema, default sheet name and update policy; adding a kind
// means extending the switches below, which the compiler audits.
type Kind int

const (
	KindPOS Kind = iota
	KindRemainProduct
	KindAwaitingOrder
	KindGHTKOrder
	KindVTPOrder
)

// Delivery-partner ids as Pancake assigns them.
const (
	partnerGHTK = 1
	partnerVTP  = 3
)

func (k Kind) String() string {
	switch k {
	case KindPOS:
		return "pos"
	case KindRemainProduct:
		return "remain_product"
	case KindAwaitingOrder:
		return "awaiting_order"
	case KindGHTKOrder:
		return "ghtk_order"
	case KindVTPOrder:
		return "vtp_order"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DefaultName is the sheet the report lands on unless the caller
// overrides it (the revenue flow reuses tables under shared sheets).
func (k Kind) DefaultName() string {
	switch k {
	case KindPOS:
		return "Pos data"
	case KindRemainProduct:
		return "TỒN KHO"
	case KindAwaitingOrder:
		return "CHỜ HÀNG"
	case KindGHTKOrder:
		return "Đơn hàng ghtk data"
	case KindVTPOrder:
		return "Đơn hàng vtp data"
	default:
		return k.String()
	}
}

func (k Kind) columns() []string {
	switch k {
	case KindPOS:
		return []string{
			"Ngày tạo đơn", "COD", "Tổng số lượng SP", "Số lượng",
			"Mã sản phẩm", "Mã Mẫu Mã",
		}
	case KindRemainProduct:
		return []string{"MA_SP", "MA_MAU_MA", "TON_KHO", "Danh mục", "Tổng nhập"}
	case KindAwaitingOrder:
		return []string{
			"Ngày tạo đơn", "Mã sản phẩm", "Mã Mẫu mã", "Sản phẩm",
			"Mã đơn hàng", "Tổng số lượng SP", "Số lượng", "Giá",
			"Giảm giá", "Tình trạng kho", "COD",
		}
	case KindGHTKOrder, KindVTPOrder:
		return []string{
			"MVĐ", "Khách hàng", "SĐT", "Mã sản phẩm", "Mã mẫu mã",
			"Sản phẩm", "Tổng SL", "Số lượng", "COD", "Phí trả cho ĐVVC",
			"Facebook Page", "PAGE ID", "Người xử lý", "NV xác nhận",
			"Ngày tạo đơn", "Kho hàng", "Ngày gửi",
		}
	default:
		return nil
	}
}

// DefaultPolicy mirrors the destination semantics each report has always
// had: carrier reports accumulate, everything else is replaced.
func (k Kind) DefaultPolicy() domain.UpdatePolicy {
	switch k {
	case KindGHTKOrder, KindVTPOrder:
		return domain.PolicyAppend
	default:
		return domain.PolicyReplace
	}
}

// NewTable returns an empty table carrying the kind's schema.
func (k Kind) NewTable() *domain.Table {
	return &domain.Table{
		Name:    k.DefaultName(),
		Columns: k.columns(),
		Policy:  k.DefaultPolicy(),
	}
}

// ParseOrders runs the kind's order parser against t, returning the
// number of rows appended. KindRemainProduct is variation-based and
// panics here; callers select parsers by exhaustive matching on Kind.
func (k Kind) ParseOrders(t *domain.Table, orders []api.Order) int {
	switch k {
	case KindPOS:
		return parsePOS(t, orders)
	case KindAwaitingOrder:
		return parseAwaiting(t, orders)
	case KindGHTKOrder:
		return parseCarrier(t, orders, partnerGHTK, ghtkWaybill)
	case KindVTPOrder:
		return parseCarrier(t, orders, partnerVTP, vtpWaybill)
	default:
		panic(fmt.Sprintf("report: kind %s does not parse orders", k))
	}
}

// ParseVariations runs the remaining-inventory parser against t.
func (k Kind) ParseVariations(t *domain.Table, variations []api.Variation) int {
	if k != KindRemainProduct {
		panic(fmt.Sprintf("report: kind %s does not parse variations", k))
	}
	return parseRemain(t, variations)
}
