package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product 商品主表，下架走软删除（archive），历史订单仍可引用
type Product struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null;index:idx_product_name" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock          int             `gorm:"not null;default:0" json:"stock"`
	Category       string          `gorm:"type:varchar(100);not null;index:idx_product_category" json:"category"`
	Specifications datatypes.JSON  `gorm:"column:specifications" json:"specifications,omitempty"`
	LikesCount     int             `gorm:"not null;default:0" json:"likes_count"`
	RatingSum      int             `gorm:"not null;default:0" json:"-"`
	ReviewCount    int             `gorm:"not null;default:0" json:"review_count"`
	Images         []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// AverageRating 冗余字段算出来的均分，保留一位小数
func (p *Product) AverageRating() float64 {
	if p.ReviewCount == 0 {
		return 0
	}
	return float64(p.RatingSum) / float64(p.ReviewCount)
}

type ProductImage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"not null;index:idx_image_product" json:"product_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	OssKey    string    `gorm:"type:varchar(512);not null" json:"-"`
	Url       string    `gorm:"type:varchar(512);not null" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// Review 商品评价，(product_id, user_id) 唯一
type Review struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

type ProductLike struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"not null;uniqueIndex:idx_like_product_user" json:"product_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_like_product_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ProductLike) TableName() string {
	return "product_likes"
}
