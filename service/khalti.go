package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"Printhub/config"
	"Printhub/models"
	"Printhub/pkg/log"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// KhaltiService 跳转式网关适配器。提供方返回结构不稳定，
// 关键字段（跳转地址、状态）要在多个候选路径里找。
type KhaltiService struct {
	cfg    *config.KhaltiConfig
	client *http.Client
	// access token 缓存，带过期时间
	tokens cmap.ConcurrentMap[string, cachedToken]
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

var _ PaymentGateway = (*KhaltiService)(nil)

func NewKhaltiService(cfg *config.KhaltiConfig) *KhaltiService {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KhaltiService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		tokens: cmap.New[cachedToken](),
	}
}

func (k *KhaltiService) Name() string {
	return models.GatewayKhalti
}

// Authenticate 用 client id/secret 换取短期凭证，命中缓存时不发请求
func (k *KhaltiService) Authenticate(ctx context.Context) (string, error) {
	if tok, ok := k.tokens.Get("access"); ok && time.Now().Before(tok.expiresAt) {
		return tok.value, nil
	}

	body, _ := json.Marshal(map[string]string{
		"client_id":     k.cfg.ClientID,
		"client_secret": k.cfg.ClientSecret,
	})
	resp, err := k.post(ctx, "/auth/token/", "", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: http %d", ErrGatewayAuth, resp.StatusCode)
	}

	token := gjson.GetBytes(raw, "access_token").String()
	if token == "" {
		token = gjson.GetBytes(raw, "data.access_token").String()
	}
	if token == "" {
		return "", ErrGatewayAuth
	}

	expiresIn := gjson.GetBytes(raw, "expires_in").Int()
	if expiresIn <= 0 {
		expiresIn = 300
	}
	k.tokens.Set("access", cachedToken{
		value: token,
		// 提前 30s 失效，避免边界上拿到将过期的凭证
		expiresAt: time.Now().Add(time.Duration(expiresIn-30) * time.Second),
	})
	return token, nil
}

// Initiate 发起支付。金额按最小货币单位（分）提交。
func (k *KhaltiService) Initiate(ctx context.Context, order *models.Order, payer *PayerInfo) (string, error) {
	token, err := k.Authenticate(ctx)
	if err != nil {
		return "", err
	}

	body, _ := json.Marshal(map[string]any{
		"purchase_order_id":   order.OrderSn,
		"purchase_order_name": fmt.Sprintf("Printhub order %s", order.OrderSn),
		"amount":              order.Total.Mul(minorUnit).IntPart(),
		"return_url":          k.cfg.ReturnURL,
		"website_url":         k.cfg.WebsiteURL,
		"customer_info": map[string]string{
			"name":  payer.Name,
			"email": payer.Email,
			"phone": payer.Phone,
		},
	})

	resp, err := k.post(ctx, "/epayment/initiate/", token, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GatewayHTTPError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw),
		}
	}

	if url := extractRedirectURL(raw); url != "" {
		return url, nil
	}
	log.L.Error("khalti initiate: no redirect url in response",
		zap.String("order_sn", order.OrderSn),
		zap.ByteString("body", raw))
	return "", fmt.Errorf("%w: %s", ErrGatewayUnknown, extractMessage(raw))
}

// CheckStatus 查询结算状态并归一化
func (k *KhaltiService) CheckStatus(ctx context.Context, order *models.Order) (PayStatus, error) {
	token, err := k.Authenticate(ctx)
	if err != nil {
		return PayStatusUnknown, err
	}

	body, _ := json.Marshal(map[string]string{
		"purchase_order_id": order.OrderSn,
	})
	resp, err := k.post(ctx, "/epayment/lookup/", token, body)
	if err != nil {
		return PayStatusUnknown, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PayStatusUnknown, &GatewayHTTPError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw),
		}
	}

	return NormalizeGatewayStatus(raw), nil
}

func (k *KhaltiService) post(ctx context.Context, path, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(k.cfg.BaseURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return k.client.Do(req)
}

// IsTimeout 判断是否为超时类错误（轮询时按隐式取消处理）
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// extractRedirectURL 提供方把跳转地址放过好几个位置，按序尝试
func extractRedirectURL(raw []byte) string {
	for _, path := range []string{
		"payment_url",
		"redirect_url",
		"redirectUrl",
		"data.payment_url",
		"data.redirect_url",
		"data.redirectUrl",
		"data.url",
	} {
		if v := gjson.GetBytes(raw, path).String(); v != "" {
			return v
		}
	}
	return ""
}

func extractMessage(raw []byte) string {
	for _, path := range []string{"message", "detail", "error", "data.message"} {
		if v := gjson.GetBytes(raw, path).String(); v != "" {
			return v
		}
	}
	return string(raw)
}

// NormalizeGatewayStatus 状态字段可能在根上也可能在 data 下
func NormalizeGatewayStatus(raw []byte) PayStatus {
	status := gjson.GetBytes(raw, "status").String()
	if status == "" {
		status = gjson.GetBytes(raw, "data.status").String()
	}
	if status == "" {
		status = gjson.GetBytes(raw, "state").String()
	}
	if status == "" {
		status = gjson.GetBytes(raw, "data.state").String()
	}

	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "complete", "success", "paid":
		return PayStatusSuccess
	case "failed", "declined", "error":
		return PayStatusFailed
	case "cancelled", "canceled", "user canceled", "expired", "refunded":
		return PayStatusCancelled
	case "pending", "initiated", "processing":
		return PayStatusPending
	}
	return PayStatusUnknown
}
