package service

import (
	"context"
	"errors"
	"fmt"

	"Printhub/models"

	"github.com/shopspring/decimal"
)

// 网关按最小货币单位收金额（1 元 = 100 分）
var minorUnit = decimal.NewFromInt(100)

// PayStatus 网关结算状态的归一化结果
type PayStatus string

const (
	PayStatusSuccess   PayStatus = "success"
	PayStatusFailed    PayStatus = "failed"
	PayStatusCancelled PayStatus = "cancelled"
	PayStatusPending   PayStatus = "pending"
	PayStatusUnknown   PayStatus = "unknown"
)

// PayerInfo 发起支付时透传给网关的付款人信息
type PayerInfo struct {
	UserID uint64
	Name   string
	Email  string
	Phone  string
}

// PaymentGateway 跳转式支付网关适配器。
// 三个操作都是同步 HTTP 调用，不内置重试，由调用方决定。
type PaymentGateway interface {
	Name() string
	// Initiate 发起支付，返回用户跳转地址
	Initiate(ctx context.Context, order *models.Order, payer *PayerInfo) (string, error)
	// CheckStatus 查询结算状态，返回归一化枚举
	CheckStatus(ctx context.Context, order *models.Order) (PayStatus, error)
}

var (
	ErrGatewayAuth    = errors.New("网关认证失败")
	ErrGatewayUnknown = errors.New("无法识别的网关响应")
)

// GatewayHTTPError 网关返回的非 2xx 响应
type GatewayHTTPError struct {
	StatusCode int
	Message    string
}

func (e *GatewayHTTPError) Error() string {
	return fmt.Sprintf("gateway http %d: %s", e.StatusCode, e.Message)
}

// GatewayRegistry 按 payment_gateway 字段路由到具体网关
type GatewayRegistry struct {
	gateways map[string]PaymentGateway
}

func NewGatewayRegistry(khalti *KhaltiService, wechat *WechatPayService) *GatewayRegistry {
	r := &GatewayRegistry{gateways: make(map[string]PaymentGateway)}
	r.register(khalti)
	if wechat != nil {
		r.register(wechat)
	}
	return r
}

func (r *GatewayRegistry) register(g PaymentGateway) {
	r.gateways[g.Name()] = g
}

func (r *GatewayRegistry) Get(name string) (PaymentGateway, bool) {
	g, ok := r.gateways[name]
	return g, ok
}
