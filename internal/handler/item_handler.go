package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/itemshare/service-sharing/internal/application"
	"github.com/itemshare/service-sharing/internal/response"
)

// ItemHandler handles HTTP requests for item listings and comments.
type ItemHandler struct {
	service *application.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers all item routes on the given router group.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListOwnerItems)
		items.GET("/search", h.SearchItems)
		items.GET("/:itemId", h.GetItem)
		items.PATCH("/:itemId", h.UpdateItem)
		items.POST("/:itemId/comment", h.AddComment)
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateItem handles PATCH /items/:itemId.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetItem handles GET /items/:itemId.
func (h *ItemHandler) GetItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	result, err := h.service.GetItem(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOwnerItems handles GET /items?from=&size=.
func (h *ItemHandler) ListOwnerItems(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	from, size, ok := pagination(c)
	if !ok {
		return
	}

	result, err := h.service.GetOwnerItems(c.Request.Context(), ownerID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SearchItems handles GET /items/search?text=&from=&size=.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	from, size, ok := pagination(c)
	if !ok {
		return
	}

	result, err := h.service.SearchItems(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddComment handles POST /items/:itemId/comment.
func (h *ItemHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req application.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
