package handler

import (
	"Printhub/config"
	"Printhub/middleware"
	"Printhub/pkg/context"
	"Printhub/pkg/response"
	"Printhub/service"
	"Printhub/types"

	"github.com/gin-gonic/gin"
)

type Cart struct {
	Config      *config.Config
	CartService service.ICartService
}

func NewCart(config *config.Config, cartService service.ICartService) *Cart {
	return &Cart{
		Config:      config,
		CartService: cartService,
	}
}

func (h *Cart) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))

	cart := r.Group("/v1/cart", authorize)
	cart.GET("", context.Wrap(h.Get))
	cart.POST("/items", context.Wrap(h.AddItem))
	cart.PUT("/items/:productID", context.Wrap(h.UpdateItem))
	cart.DELETE("/items/:productID", context.Wrap(h.RemoveItem))
	cart.DELETE("", context.Wrap(h.Clear))
}

func (h *Cart) Get(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	view, err := h.CartService.Get(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, view)
	return nil
}

func (h *Cart) AddItem(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	var req types.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	view, err := h.CartService.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, view)
	return nil
}

func (h *Cart) UpdateItem(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	productID, err := parseID(c, "productID")
	if err != nil {
		return err
	}

	var req types.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	view, err := h.CartService.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		return err
	}
	response.Success(c, view)
	return nil
}

func (h *Cart) RemoveItem(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	productID, err := parseID(c, "productID")
	if err != nil {
		return err
	}

	view, err := h.CartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		return err
	}
	response.Success(c, view)
	return nil
}

func (h *Cart) Clear(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	if err := h.CartService.Clear(c.Request.Context(), userID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
