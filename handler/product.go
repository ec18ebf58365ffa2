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

type Product struct {
	Config         *config.Config
	ProductService service.IProductService
}

func NewProduct(config *config.Config, productService service.IProductService) *Product {
	return &Product{
		Config:         config,
		ProductService: productService,
	}
}

func (h *Product) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	admin := middleware.RequireAdmin()

	products := r.Group("/v1/products")
	products.GET("", context.Wrap(h.List))
	products.GET("/:id", context.Wrap(h.Detail))

	manage := r.Group("/v1/admin/products", authorize, admin)
	manage.GET("", context.Wrap(h.ListAdmin))
	manage.POST("", context.Wrap(h.Create))
	manage.PUT("/:id", context.Wrap(h.Update))
	manage.DELETE("/:id", context.Wrap(h.Archive))
	manage.POST("/:id/restore", context.Wrap(h.Restore))
	manage.POST("/:id/images", context.Wrap(h.AddImage))
	manage.DELETE("/:id/images/:imageID", context.Wrap(h.RemoveImage))
}

func parseID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrValidation("非法的 " + name)
	}
	return id, nil
}

func (h *Product) List(c *gin.Context) error {
	var req types.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	resp, err := h.ProductService.List(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Product) Detail(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.ProductService.Detail(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Product) ListAdmin(c *gin.Context) error {
	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.ProductService.ListAdmin(c.Request.Context(), cursor, limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Product) Create(c *gin.Context) error {
	var req types.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	product, err := h.ProductService.Create(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Created(c, product)
	return nil
}

func (h *Product) Update(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req types.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.ErrValidation(err.Error())
	}

	if err := h.ProductService.Update(c.Request.Context(), id, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Product) Archive(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.ProductService.Archive(c.Request.Context(), id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Product) Restore(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.ProductService.Restore(c.Request.Context(), id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Product) AddImage(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return response.ErrValidation("缺少图片文件")
	}

	img, err := h.ProductService.AddImage(c.Request.Context(), id, file)
	if err != nil {
		return err
	}
	response.Created(c, img)
	return nil
}

func (h *Product) RemoveImage(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	imageID, err := parseID(c, "imageID")
	if err != nil {
		return err
	}

	if err := h.ProductService.RemoveImage(c.Request.Context(), id, imageID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
