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

type Auth struct {
	Config      *config.Config
	UserService service.IUserService
}

func NewAuth(config *config.Config, userService service.IUserService) *Auth {
	return &Auth{
		Config:      config,
		UserService: userService,
	}
}

func (h *Auth) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))

	auth := r.Group("/v1/auth")
	auth.POST("/signup", context.Wrap(h.Signup))
	auth.POST("/login", context.Wrap(h.Login))
	auth.GET("/me", authorize, context.Wrap(h.Me))
}

func (h *Auth) Signup(c *gin.Context) error {
	var req types.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	resp, err := h.UserService.Signup(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Created(c, resp)
	return nil
}

func (h *Auth) Login(c *gin.Context) error {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	resp, err := h.UserService.Login(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Auth) Me(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	resp, err := h.UserService.Me(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
