package service

import (
	"context"
	"testing"

	"Printhub/dao"
	"Printhub/pkg/response"
	"Printhub/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddAndMerge(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(dao.NewCart(db), dao.NewProduct(db))
	user := seedUser(t, db)
	p := seedProduct(t, db, "喷嘴", "50.00", "parts", 10)

	view, err := svc.AddItem(context.Background(), user.ID, &types.AddCartItemRequest{
		ProductID: p.ID, Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	// 再加同一商品，数量合并
	view, err = svc.AddItem(context.Background(), user.ID, &types.AddCartItemRequest{
		ProductID: p.ID, Quantity: 3,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("250.00")))
}

func TestCartAddOverStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(dao.NewCart(db), dao.NewProduct(db))
	user := seedUser(t, db)
	p := seedProduct(t, db, "喷嘴", "50.00", "parts", 2)

	_, err := svc.AddItem(context.Background(), user.ID, &types.AddCartItemRequest{
		ProductID: p.ID, Quantity: 3,
	})
	require.Error(t, err)
	assert.Equal(t, 409, err.(*response.BizError).Code)
}

func TestCartUpdateRemoveClear(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(dao.NewCart(db), dao.NewProduct(db))
	user := seedUser(t, db)
	p1 := seedProduct(t, db, "喷嘴", "50.00", "parts", 10)
	p2 := seedProduct(t, db, "校准块", "100.00", "parts", 10)

	_, err := svc.AddItem(context.Background(), user.ID, &types.AddCartItemRequest{ProductID: p1.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), user.ID, &types.AddCartItemRequest{ProductID: p2.ID, Quantity: 1})
	require.NoError(t, err)

	view, err := svc.UpdateItem(context.Background(), user.ID, p1.ID, 4)
	require.NoError(t, err)
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("300.00")))

	// 不在购物车里的商品
	_, err = svc.UpdateItem(context.Background(), user.ID, p2.ID+100, 1)
	require.Error(t, err)
	assert.Equal(t, 404, err.(*response.BizError).Code)

	view, err = svc.RemoveItem(context.Background(), user.ID, p1.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, p2.ID, view.Items[0].ProductID)

	require.NoError(t, svc.Clear(context.Background(), user.ID))
	view, err = svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartEmptyForNewUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(dao.NewCart(db), dao.NewProduct(db))

	view, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
}

func TestCartSkipsArchivedProducts(t *testing.T) {
	db := newTestDB(t)
	products := dao.NewProduct(db)
	svc := NewCartService(dao.NewCart(db), products)
	user := seedUser(t, db)
	p := seedProduct(t, db, "停售品", "50.00", "parts", 10)

	_, err := svc.AddItem(context.Background(), user.ID, &types.AddCartItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = products.Archive(context.Background(), p.ID)
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
