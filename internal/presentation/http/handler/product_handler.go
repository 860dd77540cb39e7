package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/sangkips/tindahan-pos/pkg/pagination"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var req request.ProductFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.Limit},
		Search:     req.Search,
	}
	if req.CategoryID != "" {
		if id, err := uuid.Parse(req.CategoryID); err == nil {
			params.CategoryID = &id
		}
	}
	if req.BrandID != "" {
		if id, err := uuid.Parse(req.BrandID); err == nil {
			params.BrandID = &id
		}
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		RetailPrice: money.FromFloat(req.RetailPrice),
		PackPrice:   money.FromFloat(req.PackPrice),
		PackSize:    req.PackSize,
		RetailStock: req.RetailStock,
		PackStock:   req.PackStock,
	}
	if req.CategoryID != nil {
		if id, err := uuid.Parse(*req.CategoryID); err == nil {
			input.CategoryID = &id
		}
	}
	if req.BrandID != nil {
		if id, err := uuid.Parse(*req.BrandID); err == nil {
			input.BrandID = &id
		}
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles a partial product update
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateProductInput{
		ID:          id,
		Name:        req.Name,
		PackSize:    req.PackSize,
		RetailStock: req.RetailStock,
		PackStock:   req.PackStock,
	}
	if req.RetailPrice != nil {
		price := money.FromFloat(*req.RetailPrice)
		input.RetailPrice = &price
	}
	if req.PackPrice != nil {
		price := money.FromFloat(*req.PackPrice)
		input.PackPrice = &price
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}
