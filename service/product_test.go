package service

import (
	"context"
	"testing"
	"time"

	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/response"
	"Printhub/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductTestEnv(t *testing.T) (*ProductService, *ReviewService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	products := dao.NewProduct(db)
	productSvc := NewProductService(products, dao.NewProductImage(db), dao.NewReview(db), &stubStorage{})
	reviewSvc := NewReviewService(dao.NewReview(db), dao.NewProductLike(db), products, dao.NewOrder(db))
	return productSvc, reviewSvc, db
}

func TestProductArchiveHidesFromList(t *testing.T) {
	svc, _, db := newProductTestEnv(t)
	p := seedProduct(t, db, "喷嘴", "50.00", "parts", 10)
	ctx := context.Background()

	page, err := svc.List(ctx, &types.ListProductsRequest{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)

	require.NoError(t, svc.Archive(ctx, p.ID))

	page, err = svc.List(ctx, &types.ListProductsRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Products)

	_, err = svc.Detail(ctx, p.ID)
	require.Error(t, err)
	assert.Equal(t, 404, err.(*response.BizError).Code)

	// 管理端能看到已下架的
	adminPage, err := svc.ListAdmin(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, adminPage.Products, 1)

	require.NoError(t, svc.Restore(ctx, p.ID))
	page, err = svc.List(ctx, &types.ListProductsRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
}

func TestProductListFilters(t *testing.T) {
	svc, _, db := newProductTestEnv(t)
	seedProduct(t, db, "PLA 耗材 白色", "80.00", "filament", 10)
	seedProduct(t, db, "PLA 耗材 黑色", "80.00", "filament", 10)
	seedProduct(t, db, "黄铜喷嘴", "50.00", "parts", 10)
	ctx := context.Background()

	page, err := svc.List(ctx, &types.ListProductsRequest{Category: "filament"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)

	page, err = svc.List(ctx, &types.ListProductsRequest{Keyword: "喷嘴"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)

	// 游标翻页
	page, err = svc.List(ctx, &types.ListProductsRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.True(t, page.HasMore)
	page, err = svc.List(ctx, &types.ListProductsRequest{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
	assert.False(t, page.HasMore)
}

func TestReviewRequiresDelivery(t *testing.T) {
	_, reviewSvc, db := newProductTestEnv(t)
	user := seedUser(t, db)
	p := seedProduct(t, db, "喷嘴", "50.00", "parts", 10)
	ctx := context.Background()

	_, err := reviewSvc.Create(ctx, user.ID, p.ID, &types.CreateReviewRequest{Rating: 5})
	require.Error(t, err)
	assert.Equal(t, 403, err.(*response.BizError).Code)

	// 有已送达订单后才能评价
	order := &models.Order{
		OrderSn: "PHTEST1", UserID: user.ID, Status: models.OrderStatusDelivered,
		PaymentGateway: models.GatewayCOD, PaymentStatus: models.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: p.ID, ProductName: p.Name, Quantity: 1,
	}).Error)

	review, err := reviewSvc.Create(ctx, user.ID, p.ID, &types.CreateReviewRequest{
		Rating: 4, Comment: "做工不错",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)

	// 冗余统计已更新
	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 1, fresh.ReviewCount)
	assert.Equal(t, 4, fresh.RatingSum)
	assert.InDelta(t, 4.0, fresh.AverageRating(), 0.001)

	// 一人一条
	_, err = reviewSvc.Create(ctx, user.ID, p.ID, &types.CreateReviewRequest{Rating: 5})
	require.Error(t, err)
	assert.Equal(t, 409, err.(*response.BizError).Code)
}

func TestToggleLike(t *testing.T) {
	_, reviewSvc, db := newProductTestEnv(t)
	user := seedUser(t, db)
	p := seedProduct(t, db, "喷嘴", "50.00", "parts", 10)
	ctx := context.Background()

	resp, err := reviewSvc.ToggleLike(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.Equal(t, 1, resp.LikesCount)

	resp, err = reviewSvc.ToggleLike(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Equal(t, 0, resp.LikesCount)
}

func TestProductUpdatePartial(t *testing.T) {
	svc, _, db := newProductTestEnv(t)
	p := seedProduct(t, db, "喷嘴", "50.00", "parts", 10)
	ctx := context.Background()

	newPrice := "59.90"
	require.NoError(t, svc.Update(ctx, p.ID, &types.UpdateProductRequest{Price: &newPrice}))

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, "59.9", fresh.Price.String())
	// 未提供的字段保持不变
	assert.Equal(t, "喷嘴", fresh.Name)
	assert.Equal(t, 10, fresh.Stock)

	bad := "-1"
	err := svc.Update(ctx, p.ID, &types.UpdateProductRequest{Price: &bad})
	require.Error(t, err)
	assert.Equal(t, 400, err.(*response.BizError).Code)

	err = svc.Update(ctx, p.ID+99, &types.UpdateProductRequest{Price: &newPrice})
	require.Error(t, err)
	assert.Equal(t, 404, err.(*response.BizError).Code)
}

// 历史订单明细里留着商品快照，下架不影响
func TestOrderItemsSnapshotSurviveArchive(t *testing.T) {
	productSvc, _, db := newProductTestEnv(t)
	user := seedUser(t, db)
	p := seedProduct(t, db, "停售喷嘴", "50.00", "parts", 10)
	ctx := context.Background()

	order := &models.Order{
		OrderSn: "PHSNAP", UserID: user.ID, Status: models.OrderStatusCompleted,
		PaymentGateway: models.GatewayCOD, PaymentStatus: models.PaymentStatusPaid,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: p.ID,
		ProductName: p.Name, UnitPrice: p.Price, Quantity: 2,
		LineTotal: p.Price.Mul(decimal.NewFromInt(2)),
	}).Error)

	require.NoError(t, productSvc.Archive(ctx, p.ID))

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Equal(t, "停售喷嘴", item.ProductName)
	assert.Equal(t, "100", item.LineTotal.String())
}
