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

type Address struct {
	Config         *config.Config
	AddressService service.IAddressService
}

func NewAddress(config *config.Config, addressService service.IAddressService) *Address {
	return &Address{
		Config:         config,
		AddressService: addressService,
	}
}

func (h *Address) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))

	addresses := r.Group("/v1/addresses", authorize)
	addresses.GET("", context.Wrap(h.List))
	addresses.POST("", context.Wrap(h.Create))
	addresses.PUT("/:id", context.Wrap(h.Update))
	addresses.DELETE("/:id", context.Wrap(h.Delete))
	addresses.POST("/:id/default", context.Wrap(h.SetDefault))
}

func (h *Address) List(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	list, err := h.AddressService.List(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, list)
	return nil
}

func (h *Address) Create(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	var req types.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	addr, err := h.AddressService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Created(c, addr)
	return nil
}

func (h *Address) Update(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req types.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	if err := h.AddressService.Update(c.Request.Context(), userID, id, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Address) Delete(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.AddressService.Delete(c.Request.Context(), userID, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Address) SetDefault(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.AddressService.SetDefault(c.Request.Context(), userID, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
