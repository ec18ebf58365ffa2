package types

import "Printhub/models"

type OrderLine struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

type ShippingAddress struct {
	Recipient  string `json:"recipient" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country" binding:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderLine      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress *ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentGateway  string           `json:"payment_gateway" binding:"required,oneof=cod khalti wechat"`
}

type CreateOrderResponse struct {
	OrderID     uint64 `json:"order_id"`
	OrderSn     string `json:"order_sn"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	RedirectUrl string `json:"redirect_url,omitempty"`
}

type ListOrdersResponse struct {
	Orders     []*models.Order `json:"orders"`
	HasMore    bool            `json:"has_more"`
	NextCursor int64           `json:"next_cursor"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered completed cancelled"`
}
