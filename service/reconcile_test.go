package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"Printhub/config"
	"Printhub/dao"
	"Printhub/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 对账用的网关桩：认证随便过，lookup 返回固定状态并计数
func newLookupServer(lookupCalls *int32, status string, httpStatus int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/":
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok"})
		case "/epayment/lookup/":
			atomic.AddInt32(lookupCalls, 1)
			if httpStatus != http.StatusOK {
				w.WriteHeader(httpStatus)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"status": status})
		}
	}))
}

func newReconcileEnv(t *testing.T, gatewayURL string) (*OrderService, *gorm.DB, *notifyRecorder) {
	t.Helper()
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		App: &config.App{Env: "test"},
		Order: &config.OrderConfig{
			TaxRatePercent:  18,
			ShippingFlatFee: "50.00",
			RestockOnCancel: true,
		},
	}
	rec := &notifyRecorder{}
	registry := NewGatewayRegistry(
		NewKhaltiService(&config.KhaltiConfig{BaseURL: gatewayURL, TimeoutSecs: 2}), nil)
	svc := NewOrderService(cfg, db, rdb,
		dao.NewOrder(db), dao.NewProduct(db), dao.NewUsers(db), registry, rec)
	return svc, db, rec
}

func seedPendingKhaltiOrder(t *testing.T, db *gorm.DB, userID uint64, sn string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderSn: sn, UserID: userID,
		Status:         models.OrderStatusPending,
		PaymentGateway: models.GatewayKhalti,
		PaymentStatus:  models.PaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestListReconcilesPendingOrder(t *testing.T) {
	var lookups int32
	srv := newLookupServer(&lookups, "Completed", http.StatusOK)
	defer srv.Close()

	svc, db, _ := newReconcileEnv(t, srv.URL)
	user := seedUser(t, db)
	order := seedPendingKhaltiOrder(t, db, user.ID, "PHRC1")

	page, err := svc.List(context.Background(), user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)

	// 列表里就能看到对账后的新状态
	assert.Equal(t, models.OrderStatusProcess, page.Orders[0].Status)
	assert.Equal(t, models.PaymentStatusPaid, page.Orders[0].PaymentStatus)

	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.OrderStatusProcess, fresh.Status)
	require.NotNil(t, fresh.PaidAt)
}

func TestReconcileThrottled(t *testing.T) {
	var lookups int32
	srv := newLookupServer(&lookups, "Pending", http.StatusOK)
	defer srv.Close()

	svc, db, _ := newReconcileEnv(t, srv.URL)
	user := seedUser(t, db)
	seedPendingKhaltiOrder(t, db, user.ID, "PHRC2")

	ctx := context.Background()
	_, err := svc.List(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	// 30s 内重复拉列表不再打网关
	_, err = svc.List(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&lookups))
}

// 网关已经不认识这笔单（404）：按用户放弃支付处理
func TestReconcileImplicitCancel(t *testing.T) {
	var lookups int32
	srv := newLookupServer(&lookups, "", http.StatusNotFound)
	defer srv.Close()

	svc, db, rec := newReconcileEnv(t, srv.URL)
	user := seedUser(t, db)
	order := seedPendingKhaltiOrder(t, db, user.ID, "PHRC3")

	_, err := svc.List(context.Background(), user.ID, 0, 10)
	require.NoError(t, err)

	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, fresh.Status)
	assert.Equal(t, models.PaymentStatusFailed, fresh.PaymentStatus)
	assert.Contains(t, rec.typesSent(), EventOrderCancelled)
}

// 网关 5xx：吞错，订单保持 pending，下次再查
func TestReconcileTransientErrorKeepsPending(t *testing.T) {
	var lookups int32
	srv := newLookupServer(&lookups, "", http.StatusInternalServerError)
	defer srv.Close()

	svc, db, _ := newReconcileEnv(t, srv.URL)
	user := seedUser(t, db)
	order := seedPendingKhaltiOrder(t, db, user.ID, "PHRC4")

	page, err := svc.List(context.Background(), user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)

	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, fresh.Status)
}

// 已发货等非 pending 状态不触发对账
func TestReconcileSkipsSettledOrders(t *testing.T) {
	var lookups int32
	srv := newLookupServer(&lookups, "Completed", http.StatusOK)
	defer srv.Close()

	svc, db, _ := newReconcileEnv(t, srv.URL)
	user := seedUser(t, db)
	order := seedPendingKhaltiOrder(t, db, user.ID, "PHRC5")
	require.NoError(t, db.Model(order).Update("status", models.OrderStatusShipped).Error)

	_, err := svc.List(context.Background(), user.ID, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, atomic.LoadInt32(&lookups))
}
