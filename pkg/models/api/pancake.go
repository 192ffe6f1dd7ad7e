package api

// Wire types for the Pancake POS API. Only the fields the report
// parsers read are mapped; everything else the API returns is ignored.

// StatusEntry is one entry in an order's status history. Status 1 marks
// the confirmation that anchors report eligibility and creation date.
type StatusEntry struct {
	Status    int    `json:"status"`
	UpdatedAt string `json:"updated_at"`
	Name      string `json:"name"`
}

// VariationField is a single attribute of a product variation, e.g.
// size or color.
type VariationField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// VariationInfo describes the product variation an order item refers to.
type VariationInfo struct {
	Name             string           `json:"name"`
	DisplayID        string           `json:"display_id"`
	ProductDisplayID string           `json:"product_display_id"`
	RetailPrice      float64          `json:"retail_price"`
	Fields           []VariationField `json:"fields"`
}

// OrderItem is one line item inside an order.
type OrderItem struct {
	Quantity            int           `json:"quantity"`
	AddedToCartQuantity int           `json:"added_to_cart_quantity"`
	DiscountEachProduct float64       `json:"discount_each_product"`
	VariationInfo       VariationInfo `json:"variation_info"`
}

// Partner holds the delivery-partner fields of an order.
type Partner struct {
	PartnerID      int    `json:"partner_id"`
	ExtendCode     string `json:"extend_code"`
	OrderNumberVTP string `json:"order_number_vtp"`
}

// Customer is the buyer attached to an order.
type Customer struct {
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phone_numbers"`
}

// Page is the Facebook page the order came through.
type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Staff is a named Pancake user (seller, confirmer).
type Staff struct {
	Name string `json:"name"`
}

// Warehouse is the warehouse an order ships from.
type Warehouse struct {
	Name string `json:"name"`
}

// Order is a raw Pancake order. The pipeline never mutates it.
type Order struct {
	ID              int64         `json:"id"`
	COD             float64       `json:"cod"`
	TotalQuantity   int           `json:"total_quantity"`
	StatusHistory   []StatusEntry `json:"status_history"`
	Items           []OrderItem   `json:"items"`
	Partner         *Partner      `json:"partner"`
	Customer        *Customer     `json:"customer"`
	Page            *Page         `json:"page"`
	AssigningSeller *Staff        `json:"assigning_seller"`
	WarehouseInfo   *Warehouse    `json:"warehouse_info"`
	TimeSendPartner string        `json:"time_send_partner"`
}

// Category is a product category.
type Category struct {
	Name string `json:"name"`
}

// ProductInfo describes the product a stock variation belongs to.
type ProductInfo struct {
	DisplayID  string     `json:"display_id"`
	Categories []Category `json:"categories"`
}

// VariationWarehouse carries per-warehouse stock counters for a
// variation.
type VariationWarehouse struct {
	ActualRemainQuantity int `json:"actual_remain_quantity"`
	TotalQuantity        int `json:"total_quantity"`
}

// Variation is a raw stock variation record from the variations
// endpoint.
type Variation struct {
	DisplayID            string               `json:"display_id"`
	Product              *ProductInfo         `json:"product"`
	VariationsWarehouses []VariationWarehouse `json:"variations_warehouses"`
}
