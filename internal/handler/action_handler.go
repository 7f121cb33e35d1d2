package handler

import (
	"net/http"
	"strings"

	"productattrs/internal/action"
	"productattrs/internal/middleware"
	"productattrs/pkg/response"

	"github.com/gin-gonic/gin"
)

type ActionHandler struct {
	dispatcher *action.Dispatcher
}

func NewActionHandler(dispatcher *action.Dispatcher) *ActionHandler {
	return &ActionHandler{dispatcher: dispatcher}
}

func (h *ActionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/actions")
	group.Use(middleware.RequireWrite())
	{
		group.POST("/:action", h.Dispatch)
	}
}

// Dispatch runs a named form-post action
// @Summary      Run action
// @Description  Runs generate_variations, create_child or update_product_types with a flat form and returns the status message
// @Tags         actions
// @Security     BearerAuth
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Produce      json
// @Param        action  path      string  true  "Action name"
// @Success      200     {object}  response.Response{data=object}
// @Failure      404     {object}  response.Response
// @Router       /api/actions/{action} [post]
func (h *ActionHandler) Dispatch(c *gin.Context) {
	name := c.Param("action")

	var form action.Form
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&form); err != nil {
			bindError(c, err)
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			bindError(c, err)
			return
		}
		form = action.FormFromValues(c.Request.PostForm)
	}

	msg, ok := h.dispatcher.Dispatch(c.Request.Context(), middleware.UserID(c), name, form)
	if !ok {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Unknown action '"+name+"'"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{
		"action":  name,
		"message": msg,
	}))
}
