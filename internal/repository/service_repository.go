package repository

import (
	"context"
	"laundry_manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	List(ctx context.Context, activeOnly bool) ([]models.Service, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	return translate("services.create", "service", r.db.WithContext(ctx).Create(service).Error)
}

func (r *serviceRepository) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	var services []models.Service
	q := r.db.WithContext(ctx).Order("kind ASC, name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&services).Error
	return services, translate("services.list", "service", err)
}

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Service, error) {
	result := make(map[uuid.UUID]models.Service, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var services []models.Service
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, translate("services.get_by_ids", "service", err)
	}
	for _, s := range services {
		result[s.ID] = s
	}
	return result, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	return translate("services.update", "service", r.db.WithContext(ctx).Save(service).Error)
}
