package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/apperror"
	"github.com/BassamAA/mawad-api/pkg/money"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// CustomerService handles account customer and job site operations
type CustomerService struct {
	uow   repository.UnitOfWork
	recon *ReconciliationService
}

// NewCustomerService creates a new customer service
func NewCustomerService(uow repository.UnitOfWork, recon *ReconciliationService) *CustomerService {
	return &CustomerService{uow: uow, recon: recon}
}

// CreateCustomerInput is the input for customer creation
type CreateCustomerInput struct {
	Name        string
	Phone       *string
	Address     *string
	ReceiptType *enum.ReceiptType
}

// UpdateCustomerInput is the input for customer update; nil fields are left
// untouched
type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Address *string
}

// CreateCustomer creates a customer. ReceiptType, when given, permanently
// locks the customer to that fiscal type.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}

	customer := &entity.Customer{
		Name:        name,
		Phone:       input.Phone,
		Address:     input.Address,
		ReceiptType: input.ReceiptType,
	}
	if err := s.uow.Store().Customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer with job sites
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.uow.Store().Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers retrieves customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.uow.Store().Customers.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(customers, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateCustomer patches customer fields. The locked receipt type is not
// patchable; receipts already issued under it would become inconsistent.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	store := s.uow.Store()
	customer, err := store.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewBadRequestError("Customer name cannot be empty")
		}
		customer.Name = name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	if err := store.Customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Customers with receipts on file
// cannot be removed.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	store := s.uow.Store()
	customer, err := store.Customers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	receipts, err := store.Receipts.ListByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if len(receipts) > 0 {
		return apperror.NewBadRequestError("Cannot delete a customer with receipts on file")
	}
	return store.Customers.Delete(ctx, id)
}

// CustomerBalance summarizes what a customer owes across all receipts
type CustomerBalance struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	Receipts    int       `json:"receipts"`
	Unpaid      int       `json:"unpaid"`
	Total       float64   `json:"total"`
	AmountPaid  float64   `json:"amount_paid"`
	Outstanding float64   `json:"outstanding"`
}

// Balance computes the customer's outstanding position from canonical paid
// amounts
func (s *CustomerService) Balance(ctx context.Context, id uuid.UUID) (*CustomerBalance, error) {
	store := s.uow.Store()
	customer, err := store.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	receipts, err := store.Receipts.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	balance := &CustomerBalance{CustomerID: id, Receipts: len(receipts)}
	for i := range receipts {
		paid, err := s.recon.CanonicalPaid(ctx, store, &receipts[i])
		if err != nil {
			return nil, err
		}
		balance.Total += receipts[i].Total
		balance.AmountPaid += paid
		if !money.GTE(paid, receipts[i].Total) {
			balance.Unpaid++
			balance.Outstanding += receipts[i].Total - paid
		}
	}
	balance.Total = money.Round2(balance.Total)
	balance.AmountPaid = money.Round2(balance.AmountPaid)
	balance.Outstanding = money.Round2(balance.Outstanding)
	return balance, nil
}

// AddJobSite attaches a job site to a customer
func (s *CustomerService) AddJobSite(ctx context.Context, customerID uuid.UUID, name string) (*entity.JobSite, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewBadRequestError("Job site name is required")
	}

	store := s.uow.Store()
	customer, err := store.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	site := &entity.JobSite{CustomerID: customerID, Name: name}
	if err := store.Customers.CreateJobSite(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// RemoveJobSite detaches a job site from a customer
func (s *CustomerService) RemoveJobSite(ctx context.Context, customerID, siteID uuid.UUID) error {
	store := s.uow.Store()
	site, err := store.Customers.GetJobSite(ctx, siteID)
	if err != nil {
		return err
	}
	if site == nil || site.CustomerID != customerID {
		return apperror.NewNotFoundError("Job site")
	}
	return store.Customers.DeleteJobSite(ctx, siteID)
}
