// repositories/card_repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"

	"uyekart.link/configs/configsdatabase"
	"uyekart.link/configs/configslog"
	"uyekart.link/models"
	"uyekart.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ICardRepository kart kayıt defteri (registry) veritabanı işlemleri için arayüz.
type ICardRepository interface {
	// Upsert (membership_id, card_type) anahtarıyla insert-or-ignore yapar.
	// Kayıt zaten varsa mevcut satırı döndürür; ikinci dönüş değeri satırın bu
	// çağrıda oluşturulup oluşturulmadığını söyler. Üretimin idempotent olmasını
	// sağlayan mekanizma budur; önce-kontrol-sonra-insert yarışı yoktur.
	Upsert(ctx context.Context, card *models.DigitalCard) (*models.DigitalCard, bool, error)
	FindByID(ctx context.Context, id uint) (*models.DigitalCard, error)
	FindByToken(ctx context.Context, token string) (*models.DigitalCard, error)
	FindBySerial(ctx context.Context, serial string) (*models.DigitalCard, error)
	FindByMembershipAndType(ctx context.Context, membershipID uint, cardType string) (*models.DigitalCard, error)
	MarkStatus(ctx context.Context, id uint, status string) error
	UpdateIssued(ctx context.Context, id uint, data map[string]interface{}) error
	ListByMembership(ctx context.Context, membershipID uint) ([]models.DigitalCard, error)
	GetAllPaginated(params queryparams.ListParams) ([]models.DigitalCard, int64, error)
	GetCount() (int64, error)
}

// CardRepository ICardRepository arayüzünü uygular.
type CardRepository struct {
	base IBaseRepository[models.DigitalCard]
	db   *gorm.DB
}

// NewCardRepository yeni bir CardRepository örneği oluşturur.
func NewCardRepository() ICardRepository {
	db := configsdatabase.GetDB()
	return newCardRepository(db)
}

// NewCardRepositoryTx transaction'lı repository oluşturur.
func NewCardRepositoryTx(tx *gorm.DB) ICardRepository {
	return newCardRepository(tx)
}

func newCardRepository(db *gorm.DB) ICardRepository {
	base := NewBaseRepository[models.DigitalCard](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "status", "card_type", "expires_at"})
	return &CardRepository{base: base, db: db}
}

// Upsert kartı uniqueness constraint'e yaslanarak ekler. Çakışmada insert
// sessizce atlanır ve mevcut satır okunup döndürülür. Bu garanti süreç
// seviyesinde paralellik altında da geçerlidir çünkü constraint veritabanındadır.
func (r *CardRepository) Upsert(ctx context.Context, card *models.DigitalCard) (*models.DigitalCard, bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "membership_id"}, {Name: "card_type"}},
		DoNothing: true,
	}).Create(card)
	if result.Error != nil {
		configslog.Log.Error("CardRepository.Upsert: insert hatası",
			zap.Uint("membership_id", card.MembershipID), zap.String("card_type", card.CardType), zap.Error(result.Error))
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		existing, err := r.FindByMembershipAndType(ctx, card.MembershipID, card.CardType)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return card, true, nil
}

func (r *CardRepository) FindByID(ctx context.Context, id uint) (*models.DigitalCard, error) {
	return r.base.FindByID(ctx, id)
}

// FindByToken doğrulama token'ı ile kartı bulur (public doğrulama yolu).
// Aynı üyeliğin platform kartları token'ı paylaştığından birden fazla satır
// eşleşebilir; doğrulanabilir durumdaki (issued/updated) satır tercih edilir,
// eşitlik ID ile kırılır. Seçim böylece deterministiktir: tek platform iptal
// edilmişken diğeri geçerliyse geçerli olan kazanır.
func (r *CardRepository) FindByToken(ctx context.Context, token string) (*models.DigitalCard, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	verifiableFirst := fmt.Sprintf("CASE WHEN status IN ('%s','%s') THEN 0 ELSE 1 END, id",
		models.CardStatusIssued, models.CardStatusUpdated)

	var card models.DigitalCard
	err := r.db.WithContext(ctx).
		Where("verification_token = ?", token).
		Order(verifiableFirst).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("CardRepository.FindByToken: DB error", zap.Error(err))
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) FindBySerial(ctx context.Context, serial string) (*models.DigitalCard, error) {
	if serial == "" {
		return nil, ErrNotFound
	}
	var card models.DigitalCard
	err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("CardRepository.FindBySerial: DB error", zap.String("serial", serial), zap.Error(err))
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) FindByMembershipAndType(ctx context.Context, membershipID uint, cardType string) (*models.DigitalCard, error) {
	var card models.DigitalCard
	err := r.db.WithContext(ctx).
		Where("membership_id = ? AND card_type = ?", membershipID, cardType).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// MarkStatus kartın yaşam döngüsü durumunu günceller. Kayıt silinmez;
// iptal ve süre dolumu yalnızca durum geçişidir.
func (r *CardRepository) MarkStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.DigitalCard{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateIssued yeniden üretim sonrası geçerlilik/referans alanlarını günceller.
func (r *CardRepository) UpdateIssued(ctx context.Context, id uint, data map[string]interface{}) error {
	return r.base.Update(ctx, id, data, 0)
}

func (r *CardRepository) ListByMembership(ctx context.Context, membershipID uint) ([]models.DigitalCard, error) {
	if membershipID == 0 {
		return nil, errors.New("geçersiz üyelik ID")
	}
	var cards []models.DigitalCard
	err := r.db.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Order("created_at desc").
		Find(&cards).Error
	return cards, err
}

// GetAllPaginated kartları yönetim listesi için sayfalayarak getirir.
func (r *CardRepository) GetAllPaginated(params queryparams.ListParams) ([]models.DigitalCard, int64, error) {
	var results []models.DigitalCard
	var totalCount int64

	query := r.db.Model(&models.DigitalCard{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if totalCount == 0 {
		return results, 0, nil
	}

	err := query.
		Order("created_at " + params.OrderBy).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&results).Error
	return results, totalCount, err
}

func (r *CardRepository) GetCount() (int64, error) {
	return r.base.GetCount()
}

// Arayüz uyumluluğu kontrolü
var _ ICardRepository = (*CardRepository)(nil)
