package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Printhub/config"
	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/log"
	"Printhub/pkg/response"
	"Printhub/pkg/utils"
	"Printhub/types"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	Create(ctx context.Context, userID uint64, req *types.CreateOrderRequest) (*types.CreateOrderResponse, error)
	List(ctx context.Context, userID uint64, cursor int64, pageSize int) (*types.ListOrdersResponse, error)
	Get(ctx context.Context, userID, orderID uint64) (*models.Order, error)
	ListAll(ctx context.Context, status string, cursor int64, pageSize int) (*types.ListOrdersResponse, error)
	AdminUpdateStatus(ctx context.Context, orderID uint64, target string) error
	Cancel(ctx context.Context, userID, orderID uint64) error
	AmendAddress(ctx context.Context, userID, orderID uint64, addr *types.ShippingAddress) error
	HandleCallback(ctx context.Context, payload []byte) error
}

// orderPolicy 下单策略，启动时从配置解析一次
type orderPolicy struct {
	taxRate         decimal.Decimal
	shippingFlat    decimal.Decimal
	codSurcharge    decimal.Decimal
	codCeiling      decimal.Decimal
	prepayCats      map[string]struct{}
	freeShipCats    map[string]struct{}
	restockOnCancel bool
}

type OrderService struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Orders   *dao.Order
	Products *dao.Product
	Users    *dao.Users
	Gateways *GatewayRegistry
	Notify   INotifyService

	policy orderPolicy
}

func NewOrderService(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	orders *dao.Order,
	products *dao.Product,
	users *dao.Users,
	gateways *GatewayRegistry,
	notify INotifyService,
) *OrderService {
	oc := cfg.Order
	return &OrderService{
		DB:       db,
		Redis:    rdb,
		Orders:   orders,
		Products: products,
		Users:    users,
		Gateways: gateways,
		Notify:   notify,
		policy: orderPolicy{
			taxRate:         decimal.NewFromInt(oc.TaxRatePercent),
			shippingFlat:    mustDecimal(oc.ShippingFlatFee),
			codSurcharge:    mustDecimal(oc.CodSurcharge),
			codCeiling:      mustDecimal(oc.CodCeiling),
			prepayCats:      toSet(oc.PrepayCategories),
			freeShipCats:    toSet(oc.FreeShippingCategories),
			restockOnCancel: oc.RestockOnCancel,
		},
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	return set
}

// Create 下单：校验 -> 服务端重算金额 -> 单事务落库+扣库存 -> 事务外发起支付
func (s *OrderService) Create(ctx context.Context, userID uint64, req *types.CreateOrderRequest) (*types.CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, response.ErrValidation("订单不能为空")
	}
	if req.ShippingAddress == nil {
		return nil, response.ErrValidation("收货地址不能为空")
	}

	// 合并重复商品行
	qtyByProduct := make(map[uint64]int, len(req.Items))
	ids := make([]uint64, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, response.ErrValidation("商品数量必须大于 0")
		}
		if _, ok := qtyByProduct[line.ProductID]; !ok {
			ids = append(ids, line.ProductID)
		}
		qtyByProduct[line.ProductID] += line.Quantity
	}

	// 一次查出所有权威价格/库存，客户端传来的价格一概不信
	products, err := s.Products.FindByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uint64]*models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := productByID[id]; !ok {
			return nil, response.ErrNotFound(fmt.Sprintf("商品不存在: %d", id))
		}
	}

	// 预检库存，给出具体是哪个商品不够；真正的防超卖在事务里的条件扣减
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		p := productByID[id]
		qty := qtyByProduct[id]
		if p.Stock < qty {
			return nil, response.ErrConflict(fmt.Sprintf("库存不足: %s", p.Name))
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Category:    p.Category,
			UnitPrice:   p.Price,
			Quantity:    qty,
			LineTotal:   lineTotal,
		})
	}
	subtotal = subtotal.Round(2)

	if req.PaymentGateway == models.GatewayCOD {
		if err := s.checkCODAllowed(subtotal, items); err != nil {
			return nil, err
		}
	}

	tax := subtotal.Mul(s.policy.taxRate).Div(decimal.NewFromInt(100)).Round(2)
	shipping := s.shippingFee(items, req.PaymentGateway)
	total := subtotal.Add(tax).Add(shipping)

	addrJSON, err := json.Marshal(req.ShippingAddress)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderSn:         utils.GenerateOrderSn(),
		UserID:          userID,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           total,
		Status:          models.OrderStatusPending,
		PaymentGateway:  req.PaymentGateway,
		PaymentStatus:   models.PaymentStatusUnpaid,
		ShippingAddress: addrJSON,
	}

	// 单事务：订单 + 明细 + 条件扣库存，任何一步失败整体回滚
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
			affected, err := s.Products.DecrStock(tx, items[i].ProductID, items[i].Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				// 并发下别人先买走了
				return response.ErrConflict(fmt.Sprintf("库存不足: %s", items[i].ProductName))
			}
		}
		return nil
	})
	if err != nil {
		var be *response.BizError
		if errors.As(err, &be) {
			return nil, be
		}
		log.L.Error("create order failed", zap.Error(err))
		return nil, response.ErrInternal("下单失败")
	}

	resp := &types.CreateOrderResponse{
		OrderID: order.ID,
		OrderSn: order.OrderSn,
		Status:  order.Status,
		Total:   total.StringFixed(2),
	}

	// 事务已提交，后面都是尽力而为，不再影响下单结果
	switch req.PaymentGateway {
	case models.GatewayCOD:
		s.confirmCOD(ctx, order, userID)
		resp.Status = models.OrderStatusProcess
	default:
		if url := s.initiatePayment(ctx, order, userID); url != "" {
			resp.RedirectUrl = url
		}
	}

	return resp, nil
}

func (s *OrderService) checkCODAllowed(subtotal decimal.Decimal, items []models.OrderItem) error {
	if s.policy.codCeiling.IsPositive() && subtotal.GreaterThanOrEqual(s.policy.codCeiling) {
		return response.ErrConflict(
			fmt.Sprintf("订单金额达到 %s，不支持货到付款", s.policy.codCeiling.StringFixed(2)))
	}
	for _, item := range items {
		if _, ok := s.policy.prepayCats[item.Category]; ok {
			return response.ErrConflict(
				fmt.Sprintf("品类 %s 需要预付，不支持货到付款", item.Category))
		}
	}
	return nil
}

// shippingFee 固定运费；整单都是免邮品类时减免；货到付款加收附加费
func (s *OrderService) shippingFee(items []models.OrderItem, gateway string) decimal.Decimal {
	fee := s.policy.shippingFlat
	allFree := len(items) > 0
	for _, item := range items {
		if _, ok := s.policy.freeShipCats[item.Category]; !ok {
			allFree = false
			break
		}
	}
	if allFree {
		fee = decimal.Zero
	}
	if gateway == models.GatewayCOD {
		fee = fee.Add(s.policy.codSurcharge)
	}
	return fee.Round(2)
}

// confirmCOD 货到付款直接确认，确认通知异步发，失败不影响下单
func (s *OrderService) confirmCOD(ctx context.Context, order *models.Order, userID uint64) {
	affected, err := s.Orders.UpdateStatusFrom(ctx, order.ID,
		[]string{models.OrderStatusPending},
		map[string]any{"status": models.OrderStatusProcess})
	if err != nil || affected == 0 {
		if err != nil {
			log.L.Error("confirm cod order failed", zap.Error(err))
		}
		return
	}
	order.Status = models.OrderStatusProcess
	s.notifyUser(ctx, userID, NotifyEvent{
		Type:    EventOrderConfirmed,
		OrderSn: order.OrderSn,
	})
}

func (s *OrderService) initiatePayment(ctx context.Context, order *models.Order, userID uint64) string {
	gw, ok := s.Gateways.Get(order.PaymentGateway)
	if !ok {
		log.L.Error("unknown payment gateway", zap.String("gateway", order.PaymentGateway))
		return ""
	}

	payer := &PayerInfo{UserID: userID}
	if user, err := s.Users.FindById(ctx, userID); err == nil {
		payer.Name = user.Name
		payer.Email = user.Email
		payer.Phone = user.Phone
	}

	url, err := gw.Initiate(ctx, order, payer)
	if err != nil {
		// 订单保持 pending，等用户重试或轮询对账
		log.L.Error("initiate payment failed",
			zap.String("order_sn", order.OrderSn),
			zap.String("gateway", order.PaymentGateway),
			zap.Error(err))
		return ""
	}
	return url
}

// List 用户订单列表；顺带对 pending 的网关单做一次机会式对账
func (s *OrderService) List(ctx context.Context, userID uint64, cursor int64, pageSize int) (*types.ListOrdersResponse, error) {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 10
	}

	orders, err := s.Orders.ListByUser(ctx, userID, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if len(orders) > pageSize {
		hasMore = true
		orders = orders[:pageSize]
	}

	for _, order := range orders {
		s.reconcile(ctx, order)
	}

	nextCursor := int64(0)
	if len(orders) > 0 {
		nextCursor = int64(orders[len(orders)-1].ID)
	}
	return &types.ListOrdersResponse{
		Orders:     orders,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}, nil
}

// reconcile 机会式对账：错误一律吞掉，列表照常返回；
// 网关 400/404 或超时视作隐式取消。
func (s *OrderService) reconcile(ctx context.Context, order *models.Order) {
	if order.Status != models.OrderStatusPending {
		return
	}
	gw, ok := s.Gateways.Get(order.PaymentGateway)
	if !ok {
		return
	}

	// 30s 内同一订单只查一次，避免刷列表打爆网关
	if s.Redis != nil {
		key := fmt.Sprintf("printhub:reconcile:%d", order.ID)
		ok, err := s.Redis.SetNX(ctx, key, 1, 30*time.Second).Result()
		if err == nil && !ok {
			return
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	st, err := gw.CheckStatus(checkCtx, order)
	if err != nil {
		var he *GatewayHTTPError
		if (errors.As(err, &he) && (he.StatusCode == 400 || he.StatusCode == 404)) || IsTimeout(err) {
			st = PayStatusCancelled
		} else {
			log.L.Warn("reconcile check status failed",
				zap.String("order_sn", order.OrderSn), zap.Error(err))
			return
		}
	}
	s.applyGatewayResult(ctx, order, st)
}

// applyGatewayResult 把网关结算结果落到订单状态机上；
// 条件更新保证重复应用同一终态是空操作。
func (s *OrderService) applyGatewayResult(ctx context.Context, order *models.Order, st PayStatus) {
	switch st {
	case PayStatusSuccess:
		now := time.Now()
		affected, err := s.Orders.UpdateStatusFrom(ctx, order.ID,
			[]string{models.OrderStatusPending},
			map[string]any{
				"status":         models.OrderStatusProcess,
				"payment_status": models.PaymentStatusPaid,
				"paid_at":        now,
			})
		if err != nil {
			log.L.Error("apply payment success failed", zap.Error(err))
			return
		}
		if affected > 0 {
			order.Status = models.OrderStatusProcess
			order.PaymentStatus = models.PaymentStatusPaid
			order.PaidAt = &now
		}
	case PayStatusFailed, PayStatusCancelled:
		applied, err := s.cancelTx(ctx, order.ID,
			[]string{models.OrderStatusPending},
			models.PaymentStatusFailed)
		if err != nil {
			log.L.Error("apply payment failure failed", zap.Error(err))
			return
		}
		if applied {
			order.Status = models.OrderStatusCancelled
			order.PaymentStatus = models.PaymentStatusFailed
			s.notifyUser(ctx, order.UserID, NotifyEvent{
				Type:    EventOrderCancelled,
				OrderSn: order.OrderSn,
				Extra:   "支付未完成。",
			})
		}
	}
	// pending/unknown 不动
}

// cancelTx 状态翻转和库存回补在同一事务里；翻转没生效（幂等重入）就什么都不做
func (s *OrderService) cancelTx(ctx context.Context, orderID uint64, from []string, paymentStatus string) (bool, error) {
	applied := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": models.OrderStatusCancelled}
		if paymentStatus != "" {
			updates["payment_status"] = paymentStatus
		}
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", orderID, from).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		if !s.policy.restockOnCancel {
			return nil
		}
		var items []models.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := s.Products.IncrStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	return applied, err
}

func (s *OrderService) Get(ctx context.Context, userID, orderID uint64) (*models.Order, error) {
	order, err := s.Orders.FindByIdAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("订单不存在")
		}
		return nil, err
	}
	s.reconcile(ctx, order)
	return order, nil
}

func (s *OrderService) ListAll(ctx context.Context, status string, cursor int64, pageSize int) (*types.ListOrdersResponse, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	orders, err := s.Orders.ListAll(ctx, status, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}
	hasMore := false
	if len(orders) > pageSize {
		hasMore = true
		orders = orders[:pageSize]
	}
	nextCursor := int64(0)
	if len(orders) > 0 {
		nextCursor = int64(orders[len(orders)-1].ID)
	}
	return &types.ListOrdersResponse{Orders: orders, HasMore: hasMore, NextCursor: nextCursor}, nil
}

// 管理员状态机迁移表：目标状态 -> 允许的来源状态
var adminTransitions = map[string][]string{
	models.OrderStatusProcess:   {models.OrderStatusPending},
	models.OrderStatusShipped:   {models.OrderStatusProcess},
	models.OrderStatusDelivered: {models.OrderStatusShipped},
	models.OrderStatusCompleted: {models.OrderStatusDelivered},
	models.OrderStatusCancelled: {models.OrderStatusPending, models.OrderStatusProcess},
}

// 进入这些状态要给用户发通知；processing/pending 不发，避免骚扰
var notifiedStatus = map[string]string{
	models.OrderStatusShipped:   EventOrderShipped,
	models.OrderStatusDelivered: EventOrderDelivered,
	models.OrderStatusCancelled: EventOrderCancelled,
}

func (s *OrderService) AdminUpdateStatus(ctx context.Context, orderID uint64, target string) error {
	from, ok := adminTransitions[target]
	if !ok {
		return response.ErrValidation("不支持的目标状态")
	}

	order, err := s.Orders.FindById(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("订单不存在")
		}
		return err
	}
	if order.Status == target {
		// 幂等：重复设置同一状态不算错
		return nil
	}

	var applied bool
	if target == models.OrderStatusCancelled {
		applied, err = s.cancelTx(ctx, orderID, from, "")
	} else {
		var affected int64
		affected, err = s.Orders.UpdateStatusFrom(ctx, orderID, from,
			map[string]any{"status": target})
		applied = affected > 0
	}
	if err != nil {
		return err
	}
	if !applied {
		return response.ErrConflict(
			fmt.Sprintf("订单当前状态 %s 不允许迁移到 %s", order.Status, target))
	}

	if event, ok := notifiedStatus[target]; ok {
		s.notifyUser(ctx, order.UserID, NotifyEvent{
			Type:    event,
			OrderSn: order.OrderSn,
		})
	}
	return nil
}

// Cancel 用户主动取消，仅限未发货
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint64) error {
	order, err := s.Orders.FindByIdAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("订单不存在")
		}
		return err
	}
	if !order.Cancellable() {
		return response.ErrConflict(
			fmt.Sprintf("订单当前状态 %s 不允许取消", order.Status))
	}

	applied, err := s.cancelTx(ctx, orderID,
		[]string{models.OrderStatusPending, models.OrderStatusProcess}, "")
	if err != nil {
		return err
	}
	if !applied {
		return response.ErrConflict("订单当前状态不允许取消")
	}

	s.notifyUser(ctx, userID, NotifyEvent{
		Type:    EventOrderCancelled,
		OrderSn: order.OrderSn,
		Extra:   "应您的要求已取消。",
	})
	return nil
}

// AmendAddress 发货前允许改收货地址，历史快照字段直接覆盖
func (s *OrderService) AmendAddress(ctx context.Context, userID, orderID uint64, addr *types.ShippingAddress) error {
	order, err := s.Orders.FindByIdAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("订单不存在")
		}
		return err
	}
	if !order.Cancellable() {
		return response.ErrConflict(
			fmt.Sprintf("订单当前状态 %s 不允许修改地址", order.Status))
	}

	addrJSON, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	affected, err := s.Orders.UpdateStatusFrom(ctx, orderID,
		[]string{models.OrderStatusPending, models.OrderStatusProcess},
		map[string]any{"shipping_address": addrJSON})
	if err != nil {
		return err
	}
	if affected == 0 {
		return response.ErrConflict("订单当前状态不允许修改地址")
	}
	return nil
}

// HandleCallback 网关回调。报文可能整体 base64 过一层；
// 订单号和状态可能在根上也可能在 data 下。
func (s *OrderService) HandleCallback(ctx context.Context, payload []byte) error {
	body := bytes.TrimSpace(payload)
	if len(body) == 0 {
		return response.ErrValidation("empty callback payload")
	}
	if body[0] != '{' && body[0] != '[' {
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			return response.ErrValidation("callback payload is neither json nor base64")
		}
		body = decoded
	}

	orderSn := ""
	for _, path := range []string{
		"purchase_order_id",
		"order_sn",
		"data.purchase_order_id",
		"data.order_sn",
	} {
		if v := gjson.GetBytes(body, path).String(); v != "" {
			orderSn = v
			break
		}
	}
	if orderSn == "" {
		return response.ErrValidation("callback payload missing order id")
	}

	order, err := s.Orders.FindBySn(ctx, orderSn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("unknown order: " + orderSn)
		}
		return err
	}

	st := NormalizeGatewayStatus(body)
	log.L.Info("payment callback",
		zap.String("order_sn", orderSn),
		zap.String("status", string(st)))

	// 终态重复投递靠条件更新天然幂等
	s.applyGatewayResult(ctx, order, st)
	return nil
}

func (s *OrderService) notifyUser(ctx context.Context, userID uint64, ev NotifyEvent) {
	user, err := s.Users.FindById(ctx, userID)
	if err != nil {
		log.L.Warn("notify: load user failed", zap.Uint64("user_id", userID), zap.Error(err))
		return
	}
	ev.Email = user.Email
	s.Notify.Dispatch(ev)
}
