package repositories

import (
	"context"
	"errors"

	"uyekart.link/configs/configsdatabase"
	"uyekart.link/models"

	"gorm.io/gorm"
)

// IMembershipRepository üyelik kayıtlarına salt okunur erişim sağlar.
// Üyelik CRUD'u dış sistemin sorumluluğundadır; bu çekirdek yalnızca okur.
type IMembershipRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Membership, error)
}

// MembershipRepository IMembershipRepository arayüzünü uygular.
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository yeni bir MembershipRepository örneği oluşturur.
func NewMembershipRepository() IMembershipRepository {
	return &MembershipRepository{db: configsdatabase.GetDB()}
}

// NewMembershipRepositoryTx transaction'lı repository oluşturur.
func NewMembershipRepositoryTx(tx *gorm.DB) IMembershipRepository {
	return &MembershipRepository{db: tx}
}

// FindByID üyeliği organizasyonu ile birlikte getirir.
func (r *MembershipRepository) FindByID(ctx context.Context, id uint) (*models.Membership, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var membership models.Membership
	err := r.db.WithContext(ctx).Preload("Organization").First(&membership, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

var _ IMembershipRepository = (*MembershipRepository)(nil)
