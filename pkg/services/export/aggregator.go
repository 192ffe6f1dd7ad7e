package export

import (
	"context"
	"fmt"

	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
	"github.com/tamnguyenvan/timegroup/pkg/services/config"
	"github.com/tamnguyenvan/timegroup/pkg/services/report"
	"github.com/tamnguyenvan/timegroup/pkg/sink"
	"github.com/tamnguyenvan/timegroup/pkg/store/pancake"
)

// Selection tokens the caller passes to pick report kinds. Unrecognized
// tokens simply match nothing.
const (
	SelectPosData       = "Pos data"
	SelectChoHang       = "CHỜ HÀNG"
	SelectTonKho        = "TỒN KHO"
	SelectDonHangGHTK   = "Đơn hàng ghtk data"
	SelectDonHangVTP    = "Đơn hàng vtp data"
	SelectDonHangData   = "Đơn hàng data"
	SelectChoHangTonKho = "Chờ hàng + TỒN KHO"
	SelectKhuVuc        = "Khu vực data"
)

// Upstream updateStatus filter values, passed through opaquely.
const (
	statusConfirmed     = "1"
	statusSentToPartner = "partner_inserted_at"
)

// Column transforms the revenue flow applies to its shared sheets.
var (
	revenuePosOrder    = []int{2, 3, 4, 5, 1, 0}
	revenueAreaColumns = []int{0, 14, 13, 16}
)

// Fetcher is the slice of the Pancake client the aggregator needs.
type Fetcher interface {
	FetchOrders(ctx context.Context, shop domain.Shop, q pancake.Query, progress pancake.ProgressFunc) ([]api.Order, error)
	FetchVariations(ctx context.Context, shop domain.Shop, q pancake.Query, progress pancake.ProgressFunc) ([]api.Variation, error)
}

// Aggregator decides which raw datasets a selection needs, fetches each
// one at most once per shop, runs the matching parsers in a fixed order
// and bundles the tables into one upload batch per shop.
type Aggregator struct {
	fetcher Fetcher
	reports config.Reports
}

func NewAggregator(fetcher Fetcher, reports config.Reports) *Aggregator {
	return &Aggregator{fetcher: fetcher, reports: reports}
}

// shopRun caches the raw datasets for one shop so parsers that share a
// dataset never trigger a second fetch.
type shopRun struct {
	agg      *Aggregator
	shop     domain.Shop
	rng      domain.TimeRange
	progress progressFunc

	confirmedOrders []api.Order
	hasConfirmed    bool
	partnerOrders   []api.Order
	hasPartner      bool
	variations      []api.Variation
	hasVariations   bool
}

type progressFunc func(state State, message string)

// BuildBatch assembles the upload batch for one shop. progress may be
// nil.
func (a *Aggregator) BuildBatch(
	ctx context.Context,
	shop domain.Shop,
	reportType domain.ReportType,
	rng domain.TimeRange,
	selected map[string]bool,
	progress progressFunc,
) (*sink.UploadBatch, error) {
	if progress == nil {
		progress = func(State, string) {}
	}
	run := &shopRun{agg: a, shop: shop, rng: rng, progress: progress}

	switch reportType {
	case domain.ReportTypeRevenue:
		return run.buildRevenue(ctx, selected)
	case domain.ReportTypeOrder:
		return run.buildOrder(ctx, selected)
	default:
		return nil, fmt.Errorf("unknown report type %q", reportType)
	}
}

func (r *shopRun) buildOrder(ctx context.Context, selected map[string]bool) (*sink.UploadBatch, error) {
	dest, ok := r.agg.reports.Order.Shops[r.shop.Code]
	if !ok {
		return nil, fmt.Errorf("shop %s has no order spreadsheet configured", r.shop.Code)
	}
	batch := &sink.UploadBatch{SpreadsheetID: dest.GID}
	cfg := r.agg.reports.Order

	if selected[SelectPosData] || selected[SelectChoHang] {
		if _, err := r.ordersConfirmed(ctx); err != nil {
			return nil, err
		}
	}

	if selected[SelectPosData] {
		r.progress(StateParsing, "Đang tạo báo cáo Pos...")
		table := report.KindPOS.NewTable()
		applyDest(table, cfg.Pos)
		report.KindPOS.ParseOrders(table, r.confirmedOrders)
		batch.Tables = append(batch.Tables, table)
	}

	if selected[SelectChoHang] {
		r.progress(StateParsing, "Đang tạo báo cáo CHỜ HÀNG...")
		table := report.KindAwaitingOrder.NewTable()
		applyDest(table, cfg.ChoHang)
		report.KindAwaitingOrder.ParseOrders(table, r.confirmedOrders)
		batch.Tables = append(batch.Tables, table)
	}

	if selected[SelectTonKho] {
		variations, err := r.productVariations(ctx)
		if err != nil {
			return nil, err
		}
		r.progress(StateParsing, "Đang tạo báo cáo TỒN KHO...")
		table := report.KindRemainProduct.NewTable()
		applyDest(table, cfg.TonKho)
		report.KindRemainProduct.ParseVariations(table, variations)
		batch.Tables = append(batch.Tables, table)
	}

	if selected[SelectDonHangGHTK] || selected[SelectDonHangVTP] {
		if _, err := r.ordersSentToPartner(ctx); err != nil {
			return nil, err
		}
	}

	if selected[SelectDonHangGHTK] {
		r.progress(StateParsing, "Đang tạo báo cáo Đơn hàng GHTK...")
		table := report.KindGHTKOrder.NewTable()
		applyDest(table, cfg.DonHangGHTK)
		report.KindGHTKOrder.ParseOrders(table, r.partnerOrders)
		batch.Tables = append(batch.Tables, table)
	}

	if selected[SelectDonHangVTP] {
		r.progress(StateParsing, "Đang tạo báo cáo Đơn hàng VTP...")
		table := report.KindVTPOrder.NewTable()
		applyDest(table, cfg.DonHangVTP)
		report.KindVTPOrder.ParseOrders(table, r.partnerOrders)
		batch.Tables = append(batch.Tables, table)
	}

	return batch, nil
}

func (r *shopRun) buildRevenue(ctx context.Context, selected map[string]bool) (*sink.UploadBatch, error) {
	cfg := r.agg.reports.Revenue
	batch := &sink.UploadBatch{SpreadsheetID: cfg.GID}

	if selected[SelectDonHangData] || selected[SelectChoHangTonKho] {
		if _, err := r.ordersConfirmed(ctx); err != nil {
			return nil, err
		}
	}

	if selected[SelectDonHangData] {
		r.progress(StateParsing, "Đang tạo báo cáo Đơn hàng...")
		table := report.KindPOS.NewTable()
		table.Name = SelectDonHangData
		applyDest(table, cfg.DonHang)
		report.KindPOS.ParseOrders(table, r.confirmedOrders)
		table.ReorderColumns(revenuePosOrder)
		batch.Tables = append(batch.Tables, table)
	}

	if selected[SelectChoHangTonKho] {
		r.progress(StateParsing, "Đang tạo báo cáo CHỜ HÀNG + TỒN KHO...")
		awaiting := report.KindAwaitingOrder.NewTable()
		awaiting.Name = SelectChoHangTonKho
		applyMultiDest(awaiting, cfg.ChoHangTonKho, 0)
		report.KindAwaitingOrder.ParseOrders(awaiting, r.confirmedOrders)
		batch.Tables = append(batch.Tables, awaiting)

		variations, err := r.productVariations(ctx)
		if err != nil {
			return nil, err
		}
		remain := report.KindRemainProduct.NewTable()
		remain.Name = SelectChoHangTonKho
		applyMultiDest(remain, cfg.ChoHangTonKho, 1)
		report.KindRemainProduct.ParseVariations(remain, variations)
		batch.Tables = append(batch.Tables, remain)
	}

	if selected[SelectKhuVuc] {
		if _, err := r.ordersSentToPartner(ctx); err != nil {
			return nil, err
		}

		r.progress(StateParsing, "Đang tạo báo cáo Khu vực...")
		ghtk := report.KindGHTKOrder.NewTable()
		ghtk.Name = SelectKhuVuc
		applyMultiDest(ghtk, cfg.KhuVuc, 0)
		report.KindGHTKOrder.ParseOrders(ghtk, r.partnerOrders)
		ghtk.KeepColumns(revenueAreaColumns)
		batch.Tables = append(batch.Tables, ghtk)

		vtp := report.KindVTPOrder.NewTable()
		vtp.Name = SelectKhuVuc
		applyMultiDest(vtp, cfg.KhuVuc, 1)
		report.KindVTPOrder.ParseOrders(vtp, r.partnerOrders)
		vtp.KeepColumns(revenueAreaColumns)
		batch.Tables = append(batch.Tables, vtp)
	}

	return batch, nil
}

func (r *shopRun) ordersConfirmed(ctx context.Context) ([]api.Order, error) {
	if r.hasConfirmed {
		return r.confirmedOrders, nil
	}
	orders, err := r.agg.fetcher.FetchOrders(ctx, r.shop,
		pancake.Query{UpdateStatus: statusConfirmed, Range: r.rng},
		r.pageProgress("Đang lấy dữ liệu đơn hàng"))
	if err != nil {
		return nil, fmt.Errorf("shop %s: confirmed orders: %w", r.shop.Code, err)
	}
	r.confirmedOrders = orders
	r.hasConfirmed = true
	return orders, nil
}

func (r *shopRun) ordersSentToPartner(ctx context.Context) ([]api.Order, error) {
	if r.hasPartner {
		return r.partnerOrders, nil
	}
	orders, err := r.agg.fetcher.FetchOrders(ctx, r.shop,
		pancake.Query{UpdateStatus: statusSentToPartner, Range: r.rng},
		r.pageProgress("Đang lấy dữ liệu đơn đẩy sang ĐVVC"))
	if err != nil {
		return nil, fmt.Errorf("shop %s: partner orders: %w", r.shop.Code, err)
	}
	r.partnerOrders = orders
	r.hasPartner = true
	return orders, nil
}

func (r *shopRun) productVariations(ctx context.Context) ([]api.Variation, error) {
	if r.hasVariations {
		return r.variations, nil
	}
	variations, err := r.agg.fetcher.FetchVariations(ctx, r.shop,
		pancake.Query{Range: r.rng},
		r.pageProgress("Đang lấy dữ liệu TỒN KHO"))
	if err != nil {
		return nil, fmt.Errorf("shop %s: variations: %w", r.shop.Code, err)
	}
	r.variations = variations
	r.hasVariations = true
	return variations, nil
}

func (r *shopRun) pageProgress(message string) pancake.ProgressFunc {
	return func(page, total int) {
		r.progress(StateFetching, fmt.Sprintf("%s. Trang %d/%d", message, page, total))
	}
}

func applyDest(t *domain.Table, dest config.Dest) {
	t.Range = dest.RangeName
	if dest.Policy != "" {
		t.Policy = domain.UpdatePolicy(dest.Policy)
	}
}

func applyMultiDest(t *domain.Table, dest config.MultiDest, i int) {
	if i < len(dest.RangeNames) {
		t.Range = dest.RangeNames[i]
	}
	if i < len(dest.Policies) && dest.Policies[i] != "" {
		t.Policy = domain.UpdatePolicy(dest.Policies[i])
	}
}
