package repositories

import (
	"context"
	"errors"

	"uyekart.link/configs/configsdatabase"
	"uyekart.link/models"

	"gorm.io/gorm"
)

// IOrganizationRepository organizasyon marka verisine salt okunur erişim sağlar.
type IOrganizationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Organization, error)
	FindBySlug(ctx context.Context, slug string) (*models.Organization, error)
}

// OrganizationRepository IOrganizationRepository arayüzünü uygular.
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository yeni bir OrganizationRepository örneği oluşturur.
func NewOrganizationRepository() IOrganizationRepository {
	return &OrganizationRepository{db: configsdatabase.GetDB()}
}

// NewOrganizationRepositoryTx transaction'lı repository oluşturur.
func NewOrganizationRepositoryTx(tx *gorm.DB) IOrganizationRepository {
	return &OrganizationRepository{db: tx}
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uint) (*models.Organization, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var org models.Organization
	err := r.db.WithContext(ctx).First(&org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	if slug == "" {
		return nil, ErrNotFound
	}
	var org models.Organization
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

var _ IOrganizationRepository = (*OrganizationRepository)(nil)
