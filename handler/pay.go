package handler

import (
	"io"

	"Printhub/pkg/context"
	"Printhub/pkg/log"
	"Printhub/pkg/response"
	"Printhub/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pay 支付网关回调入口，不走鉴权
type Pay struct {
	OrderService service.IOrderService
}

func NewPay(orderService service.IOrderService) *Pay {
	return &Pay{OrderService: orderService}
}

func (h *Pay) RegisterRouter(r gin.IRouter) {
	r.POST("/v1/orders/payment/callback", context.Wrap(h.Callback))
}

func (h *Pay) Callback(c *gin.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		return response.ErrValidation("读取回调报文失败")
	}
	log.L.Info("gateway callback received", zap.Int("bytes", len(payload)))

	if err := h.OrderService.HandleCallback(c.Request.Context(), payload); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
