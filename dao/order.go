package dao

import (
	"context"

	"Printhub/models"

	"gorm.io/gorm"
)

type Order struct {
	Repo[models.Order]
}

func NewOrder(db *gorm.DB) *Order {
	return &Order{
		Repo: NewRepo[models.Order](db),
	}
}

func (o *Order) FindByIdAndUser(ctx context.Context, id, userID uint64) (*models.Order, error) {
	var order models.Order
	err := o.Db.WithContext(ctx).Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Order) FindBySn(ctx context.Context, orderSn string) (*models.Order, error) {
	var order models.Order
	err := o.Db.WithContext(ctx).Preload("Items").
		Where("order_sn = ?", orderSn).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser 游标分页，id 倒序
func (o *Order) ListByUser(ctx context.Context, userID uint64, cursor int64, limit int) ([]*models.Order, error) {
	var orders []*models.Order
	query := o.Db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id desc").Limit(limit).Find(&orders).Error
	return orders, err
}

// ListAll 管理端全量列表
func (o *Order) ListAll(ctx context.Context, status string, cursor int64, limit int) ([]*models.Order, error) {
	var orders []*models.Order
	query := o.Db.WithContext(ctx).Preload("Items")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id desc").Limit(limit).Find(&orders).Error
	return orders, err
}

// HasDeliveredProduct 用户是否有包含该商品且已送达/完成的订单（评价资格）
func (o *Order) HasDeliveredProduct(ctx context.Context, userID, productID uint64) (bool, error) {
	var count int64
	err := o.Db.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status IN ?",
			userID, productID,
			[]string{models.OrderStatusDelivered, models.OrderStatusCompleted}).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatusFrom 条件更新：只有处于 from 状态才会迁移，返回是否生效。
// 状态机所有迁移都走这里，重复回调天然幂等（RowsAffected=0）。
func (o *Order) UpdateStatusFrom(ctx context.Context, orderID uint64, from []string, updates map[string]any) (int64, error) {
	result := o.Db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}
