package handler

import (
	"net/http"

	"productattrs/internal/middleware"
	"productattrs/internal/service"
	"productattrs/pkg/response"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	pricing service.PricingService
}

func NewPricingHandler(pricing service.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/pricing-rules", middleware.RequireRead(), h.ListRules)
		api.POST("/pricing-rules", middleware.RequireWrite(), h.UpsertRule)
		api.DELETE("/pricing-rules/:id", middleware.RequireWrite(), h.DeleteRule)
		api.POST("/pricing/apply", middleware.RequireRead(), h.ApplyRules)
	}
}

// ListRules returns every stored pricing rule
// @Summary      List pricing rules
// @Tags         pricing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.PricingRule}
// @Router       /api/pricing-rules [get]
func (h *PricingHandler) ListRules(c *gin.Context) {
	rules, err := h.pricing.ListRules(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// UpsertRule creates or updates a pricing rule for one attribute value
// @Summary      Upsert pricing rule
// @Tags         pricing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpsertPricingRuleRequest  true  "Rule"
// @Success      200      {object}  response.Response{data=model.PricingRule}
// @Failure      400      {object}  response.Response
// @Router       /api/pricing-rules [post]
func (h *PricingHandler) UpsertRule(c *gin.Context) {
	var req service.UpsertPricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rule, err := h.pricing.UpsertRule(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// DeleteRule deletes a pricing rule
// @Summary      Delete pricing rule
// @Tags         pricing
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Rule ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/pricing-rules/{id} [delete]
func (h *PricingHandler) DeleteRule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.pricing.DeleteRule(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Pricing rule deleted"}))
}

// ApplyRules folds an ordered rule list over a base price
// @Summary      Apply pricing rules
// @Description  Computes a price only. Nothing is stored.
// @Tags         pricing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ApplyRulesRequest  true  "Base price and rules"
// @Success      200      {object}  response.Response{data=service.ApplyRulesResult}
// @Failure      400      {object}  response.Response
// @Router       /api/pricing/apply [post]
func (h *PricingHandler) ApplyRules(c *gin.Context) {
	var req service.ApplyRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.pricing.Apply(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
