package dao

import (
	"context"

	"Printhub/models"

	"gorm.io/gorm"
)

type Address struct {
	Repo[models.Address]
}

func NewAddress(db *gorm.DB) *Address {
	return &Address{
		Repo: NewRepo[models.Address](db),
	}
}

func (a *Address) ListByUser(ctx context.Context, userID uint64) ([]*models.Address, error) {
	var list []*models.Address
	err := a.Db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (a *Address) FindByIdAndUser(ctx context.Context, id, userID uint64) (*models.Address, error) {
	return a.Repo.FindByWhere(ctx, "id = ? AND user_id = ?", id, userID)
}

// SetDefault 同一事务内先清掉旧默认，保证一个用户只有一个默认地址
func (a *Address) SetDefault(ctx context.Context, userID, addressID uint64) error {
	return a.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true).Error
	})
}

func (a *Address) DeleteByIdAndUser(ctx context.Context, id, userID uint64) (int64, error) {
	result := a.Db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Address{})
	return result.RowsAffected, result.Error
}
