package types

import "Printhub/models"

// QuoteSpecs 定制打印参数，随表单一起提交
type QuoteSpecs struct {
	Material string `form:"material" json:"material" binding:"required"`
	Quality  string `form:"quality" json:"quality"`
	Color    string `form:"color" json:"color"`
	Quantity int    `form:"quantity" json:"quantity" binding:"required,gte=1"`
	Notes    string `form:"notes" json:"notes"`
}

type CreateQuoteRequest struct {
	ContactName  string `form:"contact_name" binding:"required"`
	ContactEmail string `form:"contact_email" binding:"required,email"`
	ContactPhone string `form:"contact_phone"`
	QuoteSpecs
}

type CreateQuoteResponse struct {
	QuoteRef string `json:"quote_ref"`
	Status   string `json:"status"`
}

type UpdateQuoteStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=pending reviewing quoted approved rejected"`
	EstimatedPrice string `json:"estimated_price"`
	AdminNotes     string `json:"admin_notes"`
}

type ListQuotesResponse struct {
	Quotes     []*models.Quote `json:"quotes"`
	HasMore    bool            `json:"has_more"`
	NextCursor int64           `json:"next_cursor"`
}
