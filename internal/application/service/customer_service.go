package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/pkg/apperror"
	"github.com/sangkips/tindahan-pos/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name  string
	Phone string
	Notes string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "name is required"},
		})
	}

	customer := &entity.Customer{
		Name:  input.Name,
		Phone: input.Phone,
		Notes: input.Notes,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, &repository.CustomerFilterParams{
		Pagination: params,
		Search:     search,
	})
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(customers, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
