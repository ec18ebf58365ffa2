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

type Review struct {
	Config        *config.Config
	ReviewService service.IReviewService
}

func NewReview(config *config.Config, reviewService service.IReviewService) *Review {
	return &Review{
		Config:        config,
		ReviewService: reviewService,
	}
}

func (h *Review) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))

	products := r.Group("/v1/products", authorize)
	products.POST("/:id/reviews", context.Wrap(h.Create))
	products.POST("/:id/like", context.Wrap(h.ToggleLike))
}

func (h *Review) Create(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req types.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	review, err := h.ReviewService.Create(c.Request.Context(), userID, productID, &req)
	if err != nil {
		return err
	}
	response.Created(c, review)
	return nil
}

func (h *Review) ToggleLike(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.ReviewService.ToggleLike(c.Request.Context(), userID, productID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
