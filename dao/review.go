package dao

import (
	"context"
	"errors"

	"Printhub/models"

	"gorm.io/gorm"
)

type Review struct {
	Repo[models.Review]
}

func NewReview(db *gorm.DB) *Review {
	return &Review{
		Repo: NewRepo[models.Review](db),
	}
}

func (r *Review) ListByProduct(ctx context.Context, productID uint64, limit int) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.Db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// CreateWithStats 评价入库并在同一事务里维护商品冗余统计
func (r *Review) CreateWithStats(ctx context.Context, review *models.Review) error {
	return r.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", review.ProductID).
			Updates(map[string]any{
				"rating_sum":   gorm.Expr("rating_sum + ?", review.Rating),
				"review_count": gorm.Expr("review_count + ?", 1),
			}).Error
	})
}

type ProductLike struct {
	Repo[models.ProductLike]
}

func NewProductLike(db *gorm.DB) *ProductLike {
	return &ProductLike{
		Repo: NewRepo[models.ProductLike](db),
	}
}

// Toggle 点赞/取消点赞，返回操作后的状态
func (l *ProductLike) Toggle(ctx context.Context, productID, userID uint64) (bool, error) {
	liked := false
	err := l.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like models.ProductLike
		err := tx.Where("product_id = ? AND user_id = ?", productID, userID).First(&like).Error
		if err == nil {
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			return tx.Model(&models.Product{}).
				Where("id = ? AND likes_count > 0", productID).
				Update("likes_count", gorm.Expr("likes_count - ?", 1)).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&models.ProductLike{ProductID: productID, UserID: userID}).Error; err != nil {
			return err
		}
		liked = true
		return tx.Model(&models.Product{}).
			Where("id = ?", productID).
			Update("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	return liked, err
}
