package handler

import (
	"net/http"

	"productattrs/internal/extension"
	"productattrs/internal/middleware"
	"productattrs/pkg/response"

	"github.com/gin-gonic/gin"
)

type HookHandler struct {
	registry *extension.Registry
}

func NewHookHandler(registry *extension.Registry) *HookHandler {
	return &HookHandler{registry: registry}
}

func (h *HookHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/hooks/items/:stockId")
	{
		items.GET("/tabs/:tab", middleware.RequireRead(), h.TabContent)
		items.POST("/pre-save", middleware.RequireWrite(), h.PreSave)
		items.POST("/pre-delete", middleware.RequireWrite(), h.PreDelete)
	}
}

// TabContent renders an item tab through the registered extensions
// @Summary      Tab content
// @Description  Returns the host's existing tab content with every extension's additions
// @Tags         hooks
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true   "Stock ID"
// @Param        tab      path      string  true   "Tab name"
// @Param        content  query     string  false  "Existing tab content"
// @Success      200      {object}  response.Response{data=object}
// @Router       /api/hooks/items/{stockId}/tabs/{tab} [get]
func (h *HookHandler) TabContent(c *gin.Context) {
	content, err := h.registry.TabContent(c.Request.Context(), extension.TabRequest{
		StockID:         c.Param("stockId"),
		Tab:             c.Param("tab"),
		ExistingContent: c.Query("content"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"content": content}))
}

// PreSave validates item data before the host saves it
// @Summary      Pre-save hook
// @Tags         hooks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stockId  path      string  true  "Stock ID"
// @Param        payload  body      object  true  "Item data"
// @Success      200      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/hooks/items/{stockId}/pre-save [post]
func (h *HookHandler) PreSave(c *gin.Context) {
	var item extension.ItemData
	if err := c.ShouldBindJSON(&item); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.registry.PreSave(c.Request.Context(), c.Param("stockId"), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// PreDelete notifies the extensions that the host is deleting an item
// @Summary      Pre-delete hook
// @Tags         hooks
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true  "Stock ID"
// @Success      200      {object}  response.Response
// @Router       /api/hooks/items/{stockId}/pre-delete [post]
func (h *HookHandler) PreDelete(c *gin.Context) {
	if err := h.registry.PreDelete(c.Request.Context(), middleware.UserID(c), c.Param("stockId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Item data cleaned up"}))
}
