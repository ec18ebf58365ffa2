package service

import (
	base "context"
	"fmt"

	"Printhub/config"
	"Printhub/models"
	"Printhub/pkg/log"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
	"go.uber.org/zap"
)

// WechatPayService Native 扫码支付，code_url 即跳转目标。
// 证书未配置时返回 nil，网关路由里不注册。
type WechatPayService struct {
	cfg    *config.WechatPayConfig
	client *core.Client
}

var _ PaymentGateway = (*WechatPayService)(nil)

func NewWechatPayService(cfg *config.WechatPayConfig) *WechatPayService {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	mchPrivateKey, err := utils.LoadPrivateKeyWithPath(cfg.MchPrivateKeyPath)
	if err != nil {
		log.L.Error("load wechat mch private key failed", zap.Error(err))
		return nil
	}

	opts := []core.ClientOption{
		option.WithWechatPayAutoAuthCipher(
			cfg.MchID,
			cfg.MchCertificateSerialNumber,
			mchPrivateKey,
			cfg.MchAPIv3Key,
		),
	}
	client, err := core.NewClient(base.Background(), opts...)
	if err != nil {
		log.L.Error("new wechat pay client failed", zap.Error(err))
		return nil
	}

	return &WechatPayService{cfg: cfg, client: client}
}

func (w *WechatPayService) Name() string {
	return models.GatewayWechat
}

func (w *WechatPayService) Initiate(ctx base.Context, order *models.Order, payer *PayerInfo) (string, error) {
	svc := native.NativeApiService{Client: w.client}
	resp, _, err := svc.Prepay(ctx, native.PrepayRequest{
		Appid:       core.String(w.cfg.AppID),
		Mchid:       core.String(w.cfg.MchID),
		Description: core.String(fmt.Sprintf("Printhub order %s", order.OrderSn)),
		OutTradeNo:  core.String(order.OrderSn),
		NotifyUrl:   core.String(w.cfg.NotifyURL),
		Amount: &native.Amount{
			Total: core.Int64(order.Total.Mul(minorUnit).IntPart()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("微信下单失败: %w", err)
	}
	if resp.CodeUrl == nil || *resp.CodeUrl == "" {
		return "", ErrGatewayUnknown
	}
	return *resp.CodeUrl, nil
}

func (w *WechatPayService) CheckStatus(ctx base.Context, order *models.Order) (PayStatus, error) {
	svc := native.NativeApiService{Client: w.client}
	resp, _, err := svc.QueryOrderByOutTradeNo(ctx, native.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(order.OrderSn),
		Mchid:      core.String(w.cfg.MchID),
	})
	if err != nil {
		return PayStatusUnknown, err
	}
	if resp.TradeState == nil {
		return PayStatusUnknown, nil
	}

	switch *resp.TradeState {
	case "SUCCESS":
		return PayStatusSuccess, nil
	case "PAYERROR":
		return PayStatusFailed, nil
	case "CLOSED", "REVOKED", "REFUND":
		return PayStatusCancelled, nil
	case "NOTPAY", "USERPAYING", "ACCEPT":
		return PayStatusPending, nil
	}
	return PayStatusUnknown, nil
}
