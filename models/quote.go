package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	QuoteStatusPending   = "pending"
	QuoteStatusReviewing = "reviewing"
	QuoteStatusQuoted    = "quoted"
	QuoteStatusApproved  = "approved"
	QuoteStatusRejected  = "rejected"
)

// Quote 定制打印报价单，游客也可以提交（UserID 可空）
type Quote struct {
	ID             uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	QuoteRef       string           `gorm:"type:varchar(32);not null;uniqueIndex:idx_quote_ref" json:"quote_ref"`
	UserID         *uint64          `gorm:"index:idx_quote_user" json:"user_id,omitempty"`
	ContactName    string           `gorm:"type:varchar(100);not null" json:"contact_name"`
	ContactEmail   string           `gorm:"type:varchar(255);not null" json:"contact_email"`
	ContactPhone   string           `gorm:"type:varchar(20);default:''" json:"contact_phone"`
	FileKey        string           `gorm:"type:varchar(512);not null" json:"-"`
	FileName       string           `gorm:"type:varchar(255);not null" json:"file_name"`
	Specifications datatypes.JSON   `gorm:"column:specifications" json:"specifications"`
	Status         string           `gorm:"type:varchar(20);not null;default:'pending';index:idx_quote_status" json:"status"`
	EstimatedPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"estimated_price,omitempty"`
	AdminNotes     string           `gorm:"type:text" json:"admin_notes,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

// SavedModel 用户存档的打印模型文件，可复用发起报价
type SavedModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_model_user" json:"user_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	FileKey   string    `gorm:"type:varchar(512);not null" json:"-"`
	FileSize  int64     `gorm:"not null;default:0" json:"file_size"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SavedModel) TableName() string {
	return "saved_models"
}
