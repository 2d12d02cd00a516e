package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/barahweb/shop-api/internal/service"
	"github.com/barahweb/shop-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// ItemHandler handles product catalog HTTP requests.
type ItemHandler struct {
	catalog service.CatalogService
	uploads *service.UploadService
}

// NewItemHandler creates a new ItemHandler instance.
func NewItemHandler(catalog service.CatalogService, uploads *service.UploadService) *ItemHandler {
	return &ItemHandler{
		catalog: catalog,
		uploads: uploads,
	}
}

// CreateItemRequest represents the product creation form fields.
type CreateItemRequest struct {
	Name        string `form:"name" binding:"required,max=255"`
	Description string `form:"description" binding:"max=255"`
	Price       int64  `form:"price" binding:"required,min=0"`
	Quantity    int    `form:"quantity" binding:"required,min=0"`
	Category    string `form:"category" binding:"required,max=100"`
}

// UpdateItemRequest represents the partial product update payload.
type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	Quantity    *int    `json:"quantity" binding:"omitempty,min=0"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
}

// List godoc
// @Summary List products
// @Tags items
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to fetch items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

// Get godoc
// @Summary Get a product by id
// @Tags items
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, fmt.Sprintf("Item with id %d not found", id))
			return
		}
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to fetch item")
		return
	}

	response.Data(c, http.StatusOK, product)
}

// Search godoc
// @Summary Search products by name or description
// @Tags items
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Body
// @Router /items/search [get]
func (h *ItemHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "Search query is required")
		return
	}

	products, err := h.catalog.Search(c.Request.Context(), query)
	if err != nil {
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to search items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

// Create godoc
// @Summary Create a product with an image
// @Description Multipart form: product fields plus an image file
// @Tags items
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param image formData file true "Product image"
// @Success 201 {object} response.Body
// @Failure 400 {object} response.Body
// @Router /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No image uploaded")
		return
	}

	stored, err := h.uploads.Save(fileHeader)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) || errors.Is(err, service.ErrUnsupportedFileType) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to store image")
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
	})
	if err != nil {
		// The uploaded file has no owning row; remove it.
		_ = h.uploads.Delete(stored.Filename)
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to create item")
		return
	}

	image := stored.ToModel(product.ID)
	if err := h.catalog.AttachImage(c.Request.Context(), &image); err != nil {
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to create item")
		return
	}

	c.JSON(http.StatusCreated, response.Body{
		Success: true,
		Message: "Item created successfully",
		Data: gin.H{
			"item":  product,
			"image": image,
		},
	})
}

// Update godoc
// @Summary Update a product
// @Tags items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body UpdateItemRequest true "Fields to update"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if len(fields) == 0 {
		response.Error(c, http.StatusBadRequest, "No fields to update")
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, fmt.Sprintf("Item with id %d not found", id))
			return
		}
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to update item")
		return
	}

	c.JSON(http.StatusOK, response.Body{
		Success: true,
		Message: "Item updated successfully",
		Data:    product,
	})
}

// Delete godoc
// @Summary Soft-delete a product
// @Tags items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, fmt.Sprintf("Item with id %d not found", id))
			return
		}
		response.LogAndError(c, http.StatusInternalServerError, err, "Failed to delete item")
		return
	}

	response.Message(c, http.StatusOK, "Item deleted successfully")
}

func (h *ItemHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid item id")
		return 0, false
	}
	return id, true
}
