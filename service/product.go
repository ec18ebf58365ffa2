package service

import (
	"context"
	"errors"
	"mime/multipart"

	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/response"
	"Printhub/types"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var _ IProductService = (*ProductService)(nil)

type IProductService interface {
	List(ctx context.Context, req *types.ListProductsRequest) (*types.ListProductsResponse, error)
	Detail(ctx context.Context, productID uint64) (*types.ProductDetailResponse, error)
	Create(ctx context.Context, req *types.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, productID uint64, req *types.UpdateProductRequest) error
	Archive(ctx context.Context, productID uint64) error
	Restore(ctx context.Context, productID uint64) error
	ListAdmin(ctx context.Context, cursor int64, limit int) (*types.ListProductsResponse, error)
	AddImage(ctx context.Context, productID uint64, header *multipart.FileHeader) (*models.ProductImage, error)
	RemoveImage(ctx context.Context, productID, imageID uint64) error
}

type ProductService struct {
	Products *dao.Product
	Images   *dao.ProductImage
	Reviews  *dao.Review
	Storage  IStorageService
}

func NewProductService(products *dao.Product, images *dao.ProductImage, reviews *dao.Review, storage IStorageService) *ProductService {
	return &ProductService{
		Products: products,
		Images:   images,
		Reviews:  reviews,
		Storage:  storage,
	}
}

func (s *ProductService) List(ctx context.Context, req *types.ListProductsRequest) (*types.ListProductsResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	products, err := s.Products.ListByCursor(ctx, req.Category, req.Keyword, req.Cursor, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if len(products) > limit {
		hasMore = true
		products = products[:limit]
	}
	nextCursor := int64(0)
	if len(products) > 0 {
		nextCursor = int64(products[len(products)-1].ID)
	}
	return &types.ListProductsResponse{
		Products:   products,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}, nil
}

func (s *ProductService) Detail(ctx context.Context, productID uint64) (*types.ProductDetailResponse, error) {
	product, err := s.Products.FindDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("商品不存在")
		}
		return nil, err
	}

	reviews, err := s.Reviews.ListByProduct(ctx, productID, 20)
	if err != nil {
		return nil, err
	}
	return &types.ProductDetailResponse{
		Product:       product,
		AverageRating: product.AverageRating(),
		Reviews:       reviews,
	}, nil
}

func (s *ProductService) Create(ctx context.Context, req *types.CreateProductRequest) (*models.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, response.ErrValidation("价格不合法")
	}

	product := &models.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          price.Round(2),
		Stock:          req.Stock,
		Category:       req.Category,
		Specifications: datatypes.JSON(req.Specifications),
	}
	for i, url := range req.ImageUrls {
		product.Images = append(product.Images, models.ProductImage{
			Position: i,
			Url:      url,
		})
	}
	if err := s.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, productID uint64, req *types.UpdateProductRequest) error {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return response.ErrValidation("价格不合法")
		}
		updates["price"] = price.Round(2)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return response.ErrValidation("库存不能为负")
		}
		updates["stock"] = *req.Stock
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if len(req.Specifications) > 0 {
		updates["specifications"] = datatypes.JSON(req.Specifications)
	}
	if len(updates) == 0 {
		return response.ErrValidation("没有需要更新的字段")
	}

	affected, err := s.Products.UpdateById(ctx, productID, updates)
	if err != nil {
		return err
	}
	if affected == 0 {
		return response.ErrNotFound("商品不存在")
	}
	return nil
}

// Archive 下架：软删除，历史订单里的快照不受影响
func (s *ProductService) Archive(ctx context.Context, productID uint64) error {
	affected, err := s.Products.Archive(ctx, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return response.ErrNotFound("商品不存在")
	}
	return nil
}

func (s *ProductService) Restore(ctx context.Context, productID uint64) error {
	affected, err := s.Products.Restore(ctx, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return response.ErrNotFound("商品不存在")
	}
	return nil
}

func (s *ProductService) ListAdmin(ctx context.Context, cursor int64, limit int) (*types.ListProductsResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	products, err := s.Products.ListAdmin(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	hasMore := false
	if len(products) > limit {
		hasMore = true
		products = products[:limit]
	}
	nextCursor := int64(0)
	if len(products) > 0 {
		nextCursor = int64(products[len(products)-1].ID)
	}
	return &types.ListProductsResponse{
		Products:   products,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}, nil
}

func (s *ProductService) AddImage(ctx context.Context, productID uint64, header *multipart.FileHeader) (*models.ProductImage, error) {
	if _, err := s.Products.FindById(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("商品不存在")
		}
		return nil, err
	}

	key, url, err := s.Storage.UploadImage(ctx, header)
	if err != nil {
		return nil, err
	}

	position, err := s.Images.NextPosition(ctx, productID)
	if err != nil {
		return nil, err
	}
	img := &models.ProductImage{
		ProductID: productID,
		Position:  position,
		OssKey:    key,
		Url:       url,
	}
	if err := s.Images.Create(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ProductService) RemoveImage(ctx context.Context, productID, imageID uint64) error {
	img, err := s.Images.FindByIdAndProduct(ctx, imageID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("图片不存在")
		}
		return err
	}

	affected, err := s.Images.DeleteByIdAndProduct(ctx, imageID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return response.ErrNotFound("图片不存在")
	}
	if img.OssKey != "" {
		// 对象清理失败不影响业务
		_ = s.Storage.Delete(ctx, img.OssKey)
	}
	return nil
}
