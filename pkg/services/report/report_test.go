package report

import (
	"github.com/tamnguyenvan/timegroup/pkg/models/api"
)

// Shared fixtures for the parser tests.

func confirmedOrder(id int64, items ...api.OrderItem) api.Order {
	return api.Order{
		ID:            id,
		COD:           250000,
		TotalQuantity: len(items),
		StatusHistory: []api.StatusEntry{
			{Status: 0, UpdatedAt: "2024-05-10T08:00:00", Name: "Lan"},
			{Status: 1, UpdatedAt: "2024-05-12T10:30:00", Name: "Minh"},
		},
		Items: items,
	}
}

func unconfirmedOrder(id int64, items ...api.OrderItem) api.Order {
	return api.Order{
		ID:            id,
		COD:           100000,
		TotalQuantity: len(items),
		StatusHistory: []api.StatusEntry{
			{Status: 0, UpdatedAt: "2024-05-10T08:00:00"},
		},
		Items: items,
	}
}

func item(productID, variantID string, quantity int) api.OrderItem {
	return api.OrderItem{
		Quantity:            quantity,
		AddedToCartQuantity: quantity,
		VariationInfo: api.VariationInfo{
			Name:             "Áo thun",
			ProductDisplayID: productID,
			DisplayID:        variantID,
			RetailPrice:      99000,
			Fields: []api.VariationField{
				{Name: "Màu", Value: "Đen"},
				{Name: "Size", Value: "L"},
			},
		},
	}
}
