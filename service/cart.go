package service

import (
	"context"
	"errors"

	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/response"
	"Printhub/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ ICartService = (*CartService)(nil)

type ICartService interface {
	Get(ctx context.Context, userID uint64) (*types.CartView, error)
	AddItem(ctx context.Context, userID uint64, req *types.AddCartItemRequest) (*types.CartView, error)
	UpdateItem(ctx context.Context, userID, productID uint64, qty int) (*types.CartView, error)
	RemoveItem(ctx context.Context, userID, productID uint64) (*types.CartView, error)
	Clear(ctx context.Context, userID uint64) error
}

type CartService struct {
	Carts    *dao.Cart
	Products *dao.Product
}

func NewCartService(carts *dao.Cart, products *dao.Product) *CartService {
	return &CartService{Carts: carts, Products: products}
}

func (s *CartService) Get(ctx context.Context, userID uint64) (*types.CartView, error) {
	cart, err := s.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &types.CartView{Items: []types.CartItemView{}}, nil
		}
		return nil, err
	}
	return s.buildView(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID uint64, req *types.AddCartItemRequest) (*types.CartView, error) {
	product, err := s.Products.FindById(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("商品不存在")
		}
		return nil, err
	}
	if product.Stock < req.Quantity {
		return nil, response.ErrConflict("库存不足: " + product.Name)
	}

	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.UpsertItem(ctx, cart.ID, req.ProductID, req.Quantity); err != nil {
		return nil, err
	}
	return s.refresh(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID uint64, qty int) (*types.CartView, error) {
	if qty < 1 {
		return nil, response.ErrValidation("数量必须大于 0")
	}
	cart, err := s.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("购物车为空")
		}
		return nil, err
	}
	affected, err := s.Carts.UpdateItemQuantity(ctx, cart.ID, productID, qty)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, response.ErrNotFound("购物车中没有该商品")
	}
	return s.refresh(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint64) (*types.CartView, error) {
	cart, err := s.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("购物车为空")
		}
		return nil, err
	}
	if _, err := s.Carts.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.refresh(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uint64) error {
	cart, err := s.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.Carts.Clear(ctx, cart.ID)
}

func (s *CartService) refresh(ctx context.Context, userID uint64) (*types.CartView, error) {
	cart, err := s.Carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

// buildView 购物车视图按当前在售价格实时计算，不落库
func (s *CartService) buildView(ctx context.Context, cart *models.Cart) (*types.CartView, error) {
	view := &types.CartView{
		Items:    make([]types.CartItemView, 0, len(cart.Items)),
		Subtotal: decimal.Zero,
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uint64, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Products.FindByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uint64]*models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	for _, item := range cart.Items {
		p, ok := productByID[item.ProductID]
		if !ok {
			// 商品已下架，视图里直接略过
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		view.Items = append(view.Items, types.CartItemView{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
			Stock:       p.Stock,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	view.Subtotal = view.Subtotal.Round(2)
	return view, nil
}
