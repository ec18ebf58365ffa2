package dao

import (
	"context"

	"Printhub/models"

	"gorm.io/gorm"
)

type Quote struct {
	Repo[models.Quote]
}

func NewQuote(db *gorm.DB) *Quote {
	return &Quote{
		Repo: NewRepo[models.Quote](db),
	}
}

func (q *Quote) ListByUser(ctx context.Context, userID uint64, cursor int64, limit int) ([]*models.Quote, error) {
	var quotes []*models.Quote
	query := q.Db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id desc").Limit(limit).Find(&quotes).Error
	return quotes, err
}

func (q *Quote) ListAll(ctx context.Context, status string, cursor int64, limit int) ([]*models.Quote, error) {
	var quotes []*models.Quote
	query := q.Db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id desc").Limit(limit).Find(&quotes).Error
	return quotes, err
}

type SavedModel struct {
	Repo[models.SavedModel]
}

func NewSavedModel(db *gorm.DB) *SavedModel {
	return &SavedModel{
		Repo: NewRepo[models.SavedModel](db),
	}
}

func (s *SavedModel) ListByUser(ctx context.Context, userID uint64) ([]*models.SavedModel, error) {
	var list []*models.SavedModel
	err := s.Db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").Find(&list).Error
	return list, err
}

func (s *SavedModel) DeleteByIdAndUser(ctx context.Context, id, userID uint64) (int64, error) {
	result := s.Db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SavedModel{})
	return result.RowsAffected, result.Error
}
