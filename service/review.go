package service

import (
	"context"
	"errors"

	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/response"
	"Printhub/types"

	"gorm.io/gorm"
)

var _ IReviewService = (*ReviewService)(nil)

type IReviewService interface {
	Create(ctx context.Context, userID, productID uint64, req *types.CreateReviewRequest) (*models.Review, error)
	ToggleLike(ctx context.Context, userID, productID uint64) (*types.LikeToggleResponse, error)
}

type ReviewService struct {
	Reviews  *dao.Review
	Likes    *dao.ProductLike
	Products *dao.Product
	Orders   *dao.Order
}

func NewReviewService(reviews *dao.Review, likes *dao.ProductLike, products *dao.Product, orders *dao.Order) *ReviewService {
	return &ReviewService{Reviews: reviews, Likes: likes, Products: products, Orders: orders}
}

func (s *ReviewService) Create(ctx context.Context, userID, productID uint64, req *types.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.Products.FindById(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("商品不存在")
		}
		return nil, err
	}

	// 买过并且已送达才能评价
	bought, err := s.Orders.HasDeliveredProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !bought {
		return nil, response.ErrForbidden("只有收到货的买家才能评价")
	}

	exist, err := s.Reviews.IsExist(ctx, "product_id = ? AND user_id = ?", productID, userID)
	if err != nil {
		return nil, err
	}
	if exist {
		return nil, response.ErrConflict("您已评价过该商品")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.Reviews.CreateWithStats(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ToggleLike(ctx context.Context, userID, productID uint64) (*types.LikeToggleResponse, error) {
	if _, err := s.Products.FindById(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("商品不存在")
		}
		return nil, err
	}

	liked, err := s.Likes.Toggle(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.Products.FindById(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &types.LikeToggleResponse{
		Liked:      liked,
		LikesCount: product.LikesCount,
	}, nil
}
