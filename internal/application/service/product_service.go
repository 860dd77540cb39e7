package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/pkg/apperror"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/sangkips/tindahan-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog reads and maintenance. Stock deductions go
// through the settlement transaction, never through here.
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	SKU         string
	Name        string
	CategoryID  *uuid.UUID
	BrandID     *uuid.UUID
	RetailPrice decimal.Decimal
	PackPrice   decimal.Decimal
	PackSize    int
	RetailStock int
	PackStock   int
}

// CreateProduct creates a new catalog product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	var fieldErrors []apperror.FieldError
	if input.SKU == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sku", Message: "sku is required"})
	}
	if input.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if input.RetailPrice.IsNegative() || input.PackPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "prices cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.productRepo.GetBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("SKU already exists")
	}

	packSize := input.PackSize
	if packSize <= 0 {
		packSize = 1
	}
	product := &entity.Product{
		SKU:         input.SKU,
		Name:        input.Name,
		CategoryID:  input.CategoryID,
		BrandID:     input.BrandID,
		RetailPrice: money.Round2(input.RetailPrice),
		PackPrice:   money.Round2(input.PackPrice),
		PackSize:    packSize,
		RetailStock: input.RetailStock,
		PackStock:   input.PackStock,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID          uuid.UUID
	Name        *string
	RetailPrice *decimal.Decimal
	PackPrice   *decimal.Decimal
	PackSize    *int
	RetailStock *int
	PackStock   *int
}

// UpdateProduct applies a partial catalog update
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.RetailPrice != nil {
		if input.RetailPrice.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "retail_price", Message: "price cannot be negative"},
			})
		}
		product.RetailPrice = money.Round2(*input.RetailPrice)
	}
	if input.PackPrice != nil {
		if input.PackPrice.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "pack_price", Message: "price cannot be negative"},
			})
		}
		product.PackPrice = money.Round2(*input.PackPrice)
	}
	if input.PackSize != nil && *input.PackSize > 0 {
		product.PackSize = *input.PackSize
	}
	if input.RetailStock != nil {
		product.RetailStock = *input.RetailStock
	}
	if input.PackStock != nil {
		product.PackStock = *input.PackStock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with pagination and filters
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(products,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}
