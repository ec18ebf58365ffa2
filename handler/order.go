package handler

import (
	"strconv"

	"Printhub/config"
	"Printhub/middleware"
	"Printhub/pkg/context"
	"Printhub/pkg/response"
	"Printhub/service"
	"Printhub/types"

	"github.com/gin-gonic/gin"
)

type Order struct {
	Config       *config.Config
	OrderService service.IOrderService
}

func NewOrder(config *config.Config, orderService service.IOrderService) *Order {
	return &Order{
		Config:       config,
		OrderService: orderService,
	}
}

func (h *Order) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	admin := middleware.RequireAdmin()

	orders := r.Group("/v1/orders", authorize)
	orders.POST("", context.Wrap(h.Create))
	orders.GET("", context.Wrap(h.List))
	orders.GET("/:id", context.Wrap(h.Get))
	orders.POST("/:id/cancel", context.Wrap(h.Cancel))
	orders.PUT("/:id/address", context.Wrap(h.AmendAddress))

	manage := r.Group("/v1/admin/orders", authorize, admin)
	manage.GET("", context.Wrap(h.ListAll))
	manage.PUT("/:id/status", context.Wrap(h.UpdateStatus))
}

func (h *Order) Create(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	resp, err := h.OrderService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	middleware.CountOrderCreated(req.PaymentGateway)
	response.Created(c, resp)
	return nil
}

func (h *Order) List(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.OrderService.List(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Order) Get(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.OrderService.Get(c.Request.Context(), userID, id)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (h *Order) Cancel(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.OrderService.Cancel(c.Request.Context(), userID, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Order) AmendAddress(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var addr types.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		return response.ErrValidation(err.Error())
	}

	if err := h.OrderService.AmendAddress(c.Request.Context(), userID, id, &addr); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Order) ListAll(c *gin.Context) error {
	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	status := c.Query("status")

	resp, err := h.OrderService.ListAll(c.Request.Context(), status, cursor, limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Order) UpdateStatus(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req types.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	if err := h.OrderService.AdminUpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
