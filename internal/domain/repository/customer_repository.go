package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// GetJobSite retrieves a job site by ID
	GetJobSite(ctx context.Context, id uuid.UUID) (*entity.JobSite, error)
	CreateJobSite(ctx context.Context, site *entity.JobSite) error
	DeleteJobSite(ctx context.Context, id uuid.UUID) error
}
