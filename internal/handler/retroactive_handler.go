package handler

import (
	"net/http"

	"productattrs/internal/middleware"
	"productattrs/internal/service"
	"productattrs/pkg/response"

	"github.com/gin-gonic/gin"
)

type RetroactiveHandler struct {
	retroactive service.RetroactiveService
}

func NewRetroactiveHandler(retroactive service.RetroactiveService) *RetroactiveHandler {
	return &RetroactiveHandler{retroactive: retroactive}
}

func (h *RetroactiveHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/retroactive")
	group.Use(middleware.RequireWrite())
	{
		group.GET("/suggestions", h.GetSuggestions)
		group.POST("/apply", h.ApplySuggestion)
	}
}

// GetSuggestions scans existing stock ids for variation patterns
// @Summary      Scan for variations
// @Tags         retroactive
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.Suggestion}
// @Router       /api/retroactive/suggestions [get]
func (h *RetroactiveHandler) GetSuggestions(c *gin.Context) {
	suggestions, err := h.retroactive.Scan(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, suggestions))
}

// ApplySuggestion applies one scanned pattern
// @Summary      Apply suggestion
// @Tags         retroactive
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ApplySuggestionRequest  true  "Pattern"
// @Success      200      {object}  response.Response{data=service.ApplySuggestionResult}
// @Failure      404      {object}  response.Response
// @Router       /api/retroactive/apply [post]
func (h *RetroactiveHandler) ApplySuggestion(c *gin.Context) {
	var req service.ApplySuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.retroactive.ApplySuggestion(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
