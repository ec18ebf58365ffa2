package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 订单状态机：pending -> processing -> shipped -> delivered -> completed
// pending/processing 可被取消（用户或管理员）
const (
	OrderStatusPending   = "pending"
	OrderStatusProcess   = "processing"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

const (
	GatewayCOD    = "cod"
	GatewayKhalti = "khalti"
	GatewayWechat = "wechat"
)

// Order 订单主表，金额在创建时一次算定，之后不再重算
type Order struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderSn         string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_order_sn" json:"order_sn"`
	UserID          uint64          `gorm:"not null;index:idx_order_user" json:"user_id"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Shipping        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index:idx_order_status" json:"status"`
	PaymentGateway  string          `gorm:"type:varchar(20);not null" json:"payment_gateway"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	ShippingAddress datatypes.JSON  `gorm:"column:shipping_address" json:"shipping_address"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// Cancellable 是否还能取消/改地址（未发货前）
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcess
}

// OrderItem 订单明细，名称和单价都是下单时的快照
type OrderItem struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint64          `gorm:"not null;index:idx_item_order" json:"order_id"`
	ProductID   uint64          `gorm:"not null;index:idx_item_product" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Category    string          `gorm:"type:varchar(100);not null" json:"category"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
