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

type Quote struct {
	Config       *config.Config
	QuoteService service.IQuoteService
}

func NewQuote(config *config.Config, quoteService service.IQuoteService) *Quote {
	return &Quote{
		Config:       config,
		QuoteService: quoteService,
	}
}

func (h *Quote) RegisterRouter(r gin.IRouter) {
	secret := []byte(h.Config.Jwt.Secret)
	authorize := middleware.Auth(secret)
	admin := middleware.RequireAdmin()

	quotes := r.Group("/v1/quotes")
	// 游客也能提交报价，带 token 则关联到账号
	quotes.POST("", middleware.OptionalAuth(secret), context.Wrap(h.Create))
	quotes.GET("/ref/:ref", context.Wrap(h.GetByRef))
	quotes.GET("", authorize, context.Wrap(h.ListMine))
	quotes.POST("/from-saved/:modelID", authorize, context.Wrap(h.CreateFromSaved))

	saved := r.Group("/v1/models", authorize)
	saved.POST("", context.Wrap(h.SaveModel))
	saved.GET("", context.Wrap(h.ListSavedModels))
	saved.DELETE("/:id", context.Wrap(h.DeleteSavedModel))

	manage := r.Group("/v1/admin/quotes", authorize, admin)
	manage.GET("", context.Wrap(h.ListAll))
	manage.PUT("/:id", context.Wrap(h.AdminUpdate))
	manage.GET("/:id/file", context.Wrap(h.FileURL))
}

func (h *Quote) Create(c *gin.Context) error {
	var req types.CreateQuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ErrValidation("缺少模型文件")
	}

	userID, _ := context.GetUserID(c)
	resp, err := h.QuoteService.Create(c.Request.Context(), userID, &req, file)
	if err != nil {
		return err
	}
	response.Created(c, resp)
	return nil
}

func (h *Quote) CreateFromSaved(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	modelID, err := parseID(c, "modelID")
	if err != nil {
		return err
	}

	var req types.CreateQuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	resp, err := h.QuoteService.CreateFromSaved(c.Request.Context(), userID, modelID, &req)
	if err != nil {
		return err
	}
	response.Created(c, resp)
	return nil
}

func (h *Quote) GetByRef(c *gin.Context) error {
	ref := c.Param("ref")
	if ref == "" {
		return response.ErrValidation("缺少报价单编号")
	}

	quote, err := h.QuoteService.GetByRef(c.Request.Context(), ref)
	if err != nil {
		return err
	}
	response.Success(c, quote)
	return nil
}

func (h *Quote) ListMine(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.QuoteService.ListMine(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Quote) ListAll(c *gin.Context) error {
	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	status := c.Query("status")

	resp, err := h.QuoteService.ListAll(c.Request.Context(), status, cursor, limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Quote) AdminUpdate(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req types.UpdateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	if err := h.QuoteService.AdminUpdate(c.Request.Context(), id, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Quote) FileURL(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	url, err := h.QuoteService.FileURL(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"url": url})
	return nil
}

func (h *Quote) SaveModel(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ErrValidation("缺少模型文件")
	}

	saved, err := h.QuoteService.SaveModel(c.Request.Context(), userID, c.PostForm("name"), file)
	if err != nil {
		return err
	}
	response.Created(c, saved)
	return nil
}

func (h *Quote) ListSavedModels(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}

	list, err := h.QuoteService.ListSavedModels(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, list)
	return nil
}

func (h *Quote) DeleteSavedModel(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.ErrAuth(err.Error())
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.QuoteService.DeleteSavedModel(c.Request.Context(), userID, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
