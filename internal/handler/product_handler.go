package handler

import (
	"net/http"

	"productattrs/internal/middleware"
	"productattrs/internal/service"
	"productattrs/pkg/pagination"
	"productattrs/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productTypes service.ProductTypeService
}

func NewProductHandler(productTypes service.ProductTypeService) *ProductHandler {
	return &ProductHandler{productTypes: productTypes}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/products", middleware.RequireRead(), h.ListProducts)
		api.GET("/products/:stockId/type", middleware.RequireRead(), h.GetProductType)
		api.PUT("/product-types", middleware.RequireWrite(), h.UpdateProductTypes)
	}
}

// ListProducts handles retrieving paginated products with their derived type
// @Summary      List products
// @Description  Retrieves a paginated list of stock items, each with its simple, variable or variation type
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by stock id or description"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)
	search := c.Query("search")

	products, total, err := h.productTypes.ListProducts(c.Request.Context(), p.Page, p.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve products: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// GetProductType returns the derived type of one product
// @Summary      Get product type
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true  "Stock ID"
// @Success      200      {object}  response.Response{data=variation.ProductType}
// @Router       /api/products/{stockId}/type [get]
func (h *ProductHandler) GetProductType(c *gin.Context) {
	pt, err := h.productTypes.GetProductType(c.Request.Context(), c.Param("stockId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pt))
}

// UpdateProductTypes applies a batch of product type changes
// @Summary      Update product types
// @Description  Moves products between simple, variable and variation. Unchanged products are skipped.
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateProductTypesRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/product-types [put]
func (h *ProductHandler) UpdateProductTypes(c *gin.Context) {
	var req service.UpdateProductTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.productTypes.UpdateProductTypes(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"message": result.Message(),
		"result":  result,
	}))
}
