package handler

import (
	"net/http"

	"productattrs/internal/middleware"
	"productattrs/internal/service"
	"productattrs/internal/variation"
	"productattrs/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateVariationsRequest struct {
	CopyPricing bool `json:"copy_pricing"`
}

type PriceVariationsRequest struct {
	BasePrice decimal.Decimal `json:"base_price"`
}

type VariationHandler struct {
	variations service.VariationService
	pricing    service.PricingService
}

func NewVariationHandler(variations service.VariationService, pricing service.PricingService) *VariationHandler {
	return &VariationHandler{variations: variations, pricing: pricing}
}

func (h *VariationHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products/:stockId")
	{
		products.GET("/variations", middleware.RequireRead(), h.ListVariations)
		products.POST("/variations/preview", middleware.RequireRead(), h.PreviewVariations)
		products.POST("/variations/pricing", middleware.RequireRead(), h.PriceVariations)
		products.POST("/variations", middleware.RequireWrite(), h.CreateVariations)
		products.POST("/children", middleware.RequireWrite(), h.CreateChild)
	}
}

// preconditionOK answers a precondition failure with a status message and no data.
func preconditionOK(c *gin.Context, err error) bool {
	msg := variation.PreconditionMessage(err)
	if msg == "" {
		return false
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"message":    msg,
		"variations": []interface{}{},
	}))
	return true
}

// ListVariations returns the persisted children of a product
// @Summary      List variations
// @Description  Lists the child products whose parent is the given stock id
// @Tags         variations
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true  "Parent stock ID"
// @Success      200      {object}  response.Response{data=[]service.VariationSummary}
// @Router       /api/products/{stockId}/variations [get]
func (h *VariationHandler) ListVariations(c *gin.Context) {
	list, err := h.variations.ListVariations(c.Request.Context(), c.Param("stockId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// PreviewVariations generates every combination without writing anything
// @Summary      Preview variations
// @Description  Expands the product's assigned attribute values into named variations. No rows are written.
// @Tags         variations
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true  "Parent stock ID"
// @Success      200      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{stockId}/variations/preview [post]
func (h *VariationHandler) PreviewVariations(c *gin.Context) {
	generated, err := h.variations.GenerateVariations(c.Request.Context(), c.Param("stockId"))
	if err != nil {
		if !preconditionOK(c, err) {
			respondError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"variations": generated,
		"total":      len(generated),
	}))
}

// CreateVariations materializes the missing variations of a product
// @Summary      Create variations
// @Description  Creates a child product for every combination that does not exist yet
// @Tags         variations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stockId  path      string                   true   "Parent stock ID"
// @Param        payload  body      CreateVariationsRequest  false  "Options"
// @Success      201      {object}  response.Response{data=service.CreateVariationsResult}
// @Success      200      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{stockId}/variations [post]
func (h *VariationHandler) CreateVariations(c *gin.Context) {
	var req CreateVariationsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	result, err := h.variations.CreateVariations(c.Request.Context(), middleware.UserID(c), c.Param("stockId"), req.CopyPricing)
	if err != nil {
		if !preconditionOK(c, err) {
			respondError(c, err)
		}
		return
	}

	status := http.StatusOK
	if len(result.Created) > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, response.Success(status, map[string]interface{}{
		"message": result.Message(),
		"result":  result,
	}))
}

// CreateChild copies the product into one explicit child
// @Summary      Create child product
// @Description  Copies the parent into a new STOCK-VAR-timestamp child with the parent's attribute values
// @Tags         variations
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true  "Parent stock ID"
// @Success      201      {object}  response.Response{data=service.CreateChildResult}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{stockId}/children [post]
func (h *VariationHandler) CreateChild(c *gin.Context) {
	result, err := h.variations.CreateChild(c.Request.Context(), middleware.UserID(c), c.Param("stockId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, map[string]interface{}{
		"message": result.Message(),
		"result":  result,
	}))
}

// PriceVariations prices every generated variation from a base price
// @Summary      Price variations
// @Description  Applies the stored pricing rules to every generated variation of the product
// @Tags         pricing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stockId  path      string                  true  "Parent stock ID"
// @Param        payload  body      PriceVariationsRequest  true  "Base price"
// @Success      200      {object}  response.Response{data=[]variation.PricedVariation}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{stockId}/variations/pricing [post]
func (h *VariationHandler) PriceVariations(c *gin.Context) {
	var req PriceVariationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	priced, err := h.pricing.PriceVariations(c.Request.Context(), c.Param("stockId"), req.BasePrice)
	if err != nil {
		if !preconditionOK(c, err) {
			respondError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, priced))
}
