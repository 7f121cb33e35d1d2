package handler

import (
	"net/http"

	"productattrs/internal/middleware"
	"productattrs/internal/service"
	"productattrs/internal/variation"
	"productattrs/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttributeHandler struct {
	attributes service.AttributeService
}

func NewAttributeHandler(attributes service.AttributeService) *AttributeHandler {
	return &AttributeHandler{attributes: attributes}
}

func (h *AttributeHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/royal-order", middleware.RequireRead(), h.GetRoyalOrder)

		api.GET("/attribute-categories", middleware.RequireRead(), h.ListCategories)
		api.POST("/attribute-categories", middleware.RequireWrite(), h.UpsertCategory)
		api.DELETE("/attribute-categories/:id", middleware.RequireWrite(), h.DeleteCategory)
		api.GET("/attribute-categories/:id/values", middleware.RequireRead(), h.ListValues)
		api.POST("/attribute-categories/:id/values", middleware.RequireWrite(), h.UpsertValue)
		api.DELETE("/attribute-values/:id", middleware.RequireWrite(), h.DeleteValue)

		api.GET("/products/:stockId/category-assignments", middleware.RequireRead(), h.ListCategoryAssignments)
		api.POST("/products/:stockId/category-assignments", middleware.RequireWrite(), h.AddCategoryAssignment)
		api.DELETE("/products/:stockId/category-assignments/:categoryId", middleware.RequireWrite(), h.RemoveCategoryAssignment)
		api.GET("/products/:stockId/assignments", middleware.RequireRead(), h.ListAssignments)
		api.POST("/products/:stockId/assignments", middleware.RequireWrite(), h.AddAssignment)
		api.DELETE("/assignments/:id", middleware.RequireWrite(), h.DeleteAssignment)
	}
}

// GetRoyalOrder returns the canonical category positions
// @Summary      Royal order options
// @Tags         attributes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]variation.RoyalOrderOption}
// @Router       /api/royal-order [get]
func (h *AttributeHandler) GetRoyalOrder(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, variation.RoyalOrderOptions()))
}

// ListCategories returns all attribute categories in royal order
// @Summary      List attribute categories
// @Tags         attributes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.CategoryResponse}
// @Router       /api/attribute-categories [get]
func (h *AttributeHandler) ListCategories(c *gin.Context) {
	categories, err := h.attributes.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// UpsertCategory creates or updates a category
// @Summary      Upsert attribute category
// @Description  Updates by id when given, otherwise by code, otherwise creates
// @Tags         attributes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpsertCategoryRequest  true  "Category"
// @Success      200      {object}  response.Response{data=model.AttributeCategory}
// @Failure      400      {object}  response.Response
// @Router       /api/attribute-categories [post]
func (h *AttributeHandler) UpsertCategory(c *gin.Context) {
	var req service.UpsertCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.attributes.UpsertCategory(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeleteCategory deletes a category with its values and assignments
// @Summary      Delete attribute category
// @Tags         attributes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/attribute-categories/{id} [delete]
func (h *AttributeHandler) DeleteCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.attributes.DeleteCategory(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Category deleted successfully"}))
}

// ListValues returns the values of a category
// @Summary      List attribute values
// @Tags         attributes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  response.Response{data=[]model.AttributeValue}
// @Failure      404  {object}  response.Response
// @Router       /api/attribute-categories/{id}/values [get]
func (h *AttributeHandler) ListValues(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	values, err := h.attributes.ListValues(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, values))
}

// UpsertValue creates or updates a value of a category
// @Summary      Upsert attribute value
// @Description  A blank slug is derived from the value
// @Tags         attributes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "Category ID"
// @Param        payload  body      service.UpsertValueRequest  true  "Value"
// @Success      200      {object}  response.Response{data=model.AttributeValue}
// @Failure      400      {object}  response.Response
// @Router       /api/attribute-categories/{id}/values [post]
func (h *AttributeHandler) UpsertValue(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req service.UpsertValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	value, err := h.attributes.UpsertValue(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, value))
}

// DeleteValue deletes a value and its assignments
// @Summary      Delete attribute value
// @Tags         attributes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Value ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/attribute-values/{id} [delete]
func (h *AttributeHandler) DeleteValue(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.attributes.DeleteValue(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Value deleted successfully"}))
}

// ListCategoryAssignments returns the categories a product varies along
// @Summary      List category assignments
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true  "Stock ID"
// @Success      200      {object}  response.Response{data=[]model.AttributeCategory}
// @Router       /api/products/{stockId}/category-assignments [get]
func (h *AttributeHandler) ListCategoryAssignments(c *gin.Context) {
	categories, err := h.attributes.ListCategoryAssignments(c.Request.Context(), c.Param("stockId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

type AddCategoryAssignmentRequest struct {
	CategoryID uint `json:"category_id" binding:"required"`
}

// AddCategoryAssignment makes the product variable along a category
// @Summary      Add category assignment
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stockId  path      string                        true  "Stock ID"
// @Param        payload  body      AddCategoryAssignmentRequest  true  "Category"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/products/{stockId}/category-assignments [post]
func (h *AttributeHandler) AddCategoryAssignment(c *gin.Context) {
	var req AddCategoryAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.attributes.AddCategoryAssignment(c.Request.Context(), c.Param("stockId"), req.CategoryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, map[string]interface{}{
		"stock_id":    c.Param("stockId"),
		"category_id": req.CategoryID,
	}))
}

// RemoveCategoryAssignment removes one category assignment
// @Summary      Remove category assignment
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        stockId     path      string  true  "Stock ID"
// @Param        categoryId  path      int     true  "Category ID"
// @Success      200         {object}  response.Response
// @Router       /api/products/{stockId}/category-assignments/{categoryId} [delete]
func (h *AttributeHandler) RemoveCategoryAssignment(c *gin.Context) {
	categoryID, ok := uintParam(c, "categoryId")
	if !ok {
		return
	}
	if err := h.attributes.RemoveCategoryAssignment(c.Request.Context(), c.Param("stockId"), categoryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Category assignment removed"}))
}

// ListAssignments returns the product's value-level assignments
// @Summary      List value assignments
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        stockId  path      string  true  "Stock ID"
// @Success      200      {object}  response.Response{data=[]model.AssignmentDetail}
// @Router       /api/products/{stockId}/assignments [get]
func (h *AttributeHandler) ListAssignments(c *gin.Context) {
	rows, err := h.attributes.ListAssignments(c.Request.Context(), c.Param("stockId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// AddAssignment assigns a value to a product
// @Summary      Add value assignment
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stockId  path      string                        true  "Stock ID"
// @Param        payload  body      service.AddAssignmentRequest  true  "Value"
// @Success      201      {object}  response.Response{data=model.AttributeAssignment}
// @Failure      404      {object}  response.Response
// @Router       /api/products/{stockId}/assignments [post]
func (h *AttributeHandler) AddAssignment(c *gin.Context) {
	var req service.AddAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	assignment, err := h.attributes.AddAssignment(c.Request.Context(), c.Param("stockId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, assignment))
}

// DeleteAssignment removes one value assignment
// @Summary      Delete value assignment
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Assignment ID"
// @Success      200  {object}  response.Response
// @Router       /api/assignments/{id} [delete]
func (h *AttributeHandler) DeleteAssignment(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.attributes.DeleteAssignment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Assignment deleted"}))
}
