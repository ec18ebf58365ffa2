package types

import (
	"Printhub/models"
	"encoding/json"
)

type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Price          string          `json:"price" binding:"required"`
	Stock          int             `json:"stock" binding:"gte=0"`
	Category       string          `json:"category" binding:"required"`
	Specifications json.RawMessage `json:"specifications"`
	ImageUrls      []string        `json:"image_urls"`
}

type UpdateProductRequest struct {
	Name           *string         `json:"name"`
	Description    *string         `json:"description"`
	Price          *string         `json:"price"`
	Stock          *int            `json:"stock"`
	Category       *string         `json:"category"`
	Specifications json.RawMessage `json:"specifications"`
}

type ListProductsRequest struct {
	Category string `form:"category"`
	Keyword  string `form:"keyword"`
	Cursor   int64  `form:"cursor"`
	Limit    int    `form:"limit"`
}

type ListProductsResponse struct {
	Products   []*models.Product `json:"products"`
	HasMore    bool              `json:"has_more"`
	NextCursor int64             `json:"next_cursor"`
}

type ProductDetailResponse struct {
	Product       *models.Product  `json:"product"`
	AverageRating float64          `json:"average_rating"`
	Reviews       []*models.Review `json:"reviews"`
}
