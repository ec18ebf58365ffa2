package dao

import (
	"context"
	"errors"

	"Printhub/models"

	"gorm.io/gorm"
)

type Cart struct {
	Repo[models.Cart]
}

func NewCart(db *gorm.DB) *Cart {
	return &Cart{
		Repo: NewRepo[models.Cart](db),
	}
}

// GetOrCreate 首次加购时懒创建购物车
func (c *Cart) GetOrCreate(ctx context.Context, userID uint64) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	err := c.Db.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(cart).Error
	return cart, err
}

func (c *Cart) FindByUser(ctx context.Context, userID uint64) (*models.Cart, error) {
	var cart models.Cart
	err := c.Db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertItem 已存在的条目合并数量
func (c *Cart) UpsertItem(ctx context.Context, cartID, productID uint64, qty int) error {
	return c.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
		if err == nil {
			return tx.Model(&item).
				Update("quantity", gorm.Expr("quantity + ?", qty)).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&models.CartItem{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  qty,
		}).Error
	})
}

func (c *Cart) UpdateItemQuantity(ctx context.Context, cartID, productID uint64, qty int) (int64, error) {
	result := c.Db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", qty)
	return result.RowsAffected, result.Error
}

func (c *Cart) RemoveItem(ctx context.Context, cartID, productID uint64) (int64, error) {
	result := c.Db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

func (c *Cart) Clear(ctx context.Context, cartID uint64) error {
	return c.Db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
