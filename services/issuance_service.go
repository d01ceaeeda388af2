// services/issuance_service.go
package services

import (
	"context"
	"errors"
	"time"

	"uyekart.link/configs"
	"uyekart.link/configs/configslog"
	"uyekart.link/models"
	"uyekart.link/pkg/gwallet"
	"uyekart.link/pkg/passkit"
	"uyekart.link/pkg/queryparams"
	"uyekart.link/repositories"
	"uyekart.link/utils"

	"go.uber.org/zap"
)

// IIssuanceService kart üretim ve yaşam döngüsü işlemleri için arayüz.
type IIssuanceService interface {
	// IssueCard verilen üyelik ve platform için tam olarak bir kart kaydı üretir.
	// Aynı (membership_id, card_type) çifti için iki kez çağrılmak aynı kart
	// kimliğini döndürür; ikinci bir kayıt ya da ikinci bir uzak şablon oluşmaz.
	IssueCard(ctx context.Context, membershipID uint, cardType string) (*models.DigitalCard, error)
	// RefreshCard üyeliğin geçerlilik aralığı değiştiğinde kartı yeniden üretir.
	RefreshCard(ctx context.Context, cardID uint) (*models.DigitalCard, error)
	RevokeCard(ctx context.Context, cardID uint) error
	ExpireCard(ctx context.Context, cardID uint) error
	GetCardsForMembership(ctx context.Context, membershipID uint) ([]models.DigitalCard, error)
	GetCardsPaginated(params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	// GetPassBundle seri numarasına göre .pkpass byte'larını getirir; dosya
	// kaybolmuşsa kayıt defterindeki karttan yeniden üretir.
	GetPassBundle(ctx context.Context, serial string) ([]byte, error)
}

// IssuanceService IIssuanceService arayüzünü uygular.
type IssuanceService struct {
	cards       repositories.ICardRepository
	memberships repositories.IMembershipRepository
	orgs        repositories.IOrganizationRepository
	providers   map[string]WalletProvider
	apple       *ApplePassProvider
	tokenSecret string
}

// NewIssuanceService konfigürasyondan servis kurar. Signer ve cüzdan istemcisi
// süreç başında bir kez oluşturulmuş, salt okunur paylaşılan kaynaklardır.
func NewIssuanceService(cfg *configs.Config, signer *passkit.Signer, walletClient *gwallet.Client) IIssuanceService {
	apple := NewApplePassProvider(cfg, signer)
	google := NewGoogleWalletProvider(walletClient, cfg.BaseURL)
	return &IssuanceService{
		cards:       repositories.NewCardRepository(),
		memberships: repositories.NewMembershipRepository(),
		orgs:        repositories.NewOrganizationRepository(),
		providers: map[string]WalletProvider{
			models.CardTypeApple:  apple,
			models.CardTypeGoogle: google,
		},
		apple:       apple,
		tokenSecret: cfg.TokenSecret,
	}
}

// NewIssuanceServiceWithDeps bağımlılıkları dışarıdan alır (testler için).
func NewIssuanceServiceWithDeps(
	cards repositories.ICardRepository,
	memberships repositories.IMembershipRepository,
	orgs repositories.IOrganizationRepository,
	providers map[string]WalletProvider,
	apple *ApplePassProvider,
	tokenSecret string,
) IIssuanceService {
	return &IssuanceService{
		cards:       cards,
		memberships: memberships,
		orgs:        orgs,
		providers:   providers,
		apple:       apple,
		tokenSecret: tokenSecret,
	}
}

// IssueCard üyelik için istenen platformda kart üretir.
func (s *IssuanceService) IssueCard(ctx context.Context, membershipID uint, cardType string) (*models.DigitalCard, error) {
	if membershipID == 0 {
		return nil, ErrInvalidInput
	}
	if !models.ValidCardType(cardType) {
		return nil, ErrUnsupportedCardType
	}

	membership, org, err := s.resolveMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	// Hızlı yol: kart zaten varsa platform çağrısı yapmadan onu döndür.
	// Yarış durumları aşağıdaki Upsert'teki constraint ile güvence altındadır.
	if existing, err := s.cards.FindByMembershipAndType(ctx, membershipID, cardType); err == nil {
		configslog.SLog.Debugf("Kart zaten üretilmiş, mevcut kayıt dönülüyor: ID %d", existing.ID)
		return existing, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	// Token deterministik türetilir; kart güncellemelerinde değişmez.
	token := utils.VerificationToken(s.tokenSecret, org.ID, membership.ID)

	provider := s.providers[cardType]
	result, err := provider.EnsureCredential(ctx, membership, org, token)
	if err != nil {
		return nil, err
	}

	card := &models.DigitalCard{
		MembershipID:      membership.ID,
		OrganizationID:    org.ID,
		CardType:          cardType,
		SerialNumber:      result.SerialNumber,
		RemoteObjectID:    result.RemoteObjectID,
		ReferenceURL:      result.ReferenceURL,
		VerificationToken: token,
		Status:            models.CardStatusIssued,
		IssuedAt:          time.Now(),
		ExpiresAt:         membership.EndDate, // Her zaman üyeliğin end_date'inden kopyalanır
	}

	saved, created, err := s.cards.Upsert(ctx, card)
	if err != nil {
		return nil, err
	}
	if !created {
		// Eşzamanlı çağrı bizden önce kazandı; bu çağrının ürettiği paket artıktır.
		if cardType == models.CardTypeApple && s.apple != nil && result.SerialNumber != saved.SerialNumber {
			s.apple.RemoveBundle(result.SerialNumber)
		}
		configslog.SLog.Infof("Eşzamanlı üretim yakalandı, mevcut kart dönülüyor: ID %d", saved.ID)
		return saved, nil
	}

	configslog.SLog.Infof("Kart üretildi: ID %d, üyelik %d, platform %s", saved.ID, membership.ID, cardType)
	return saved, nil
}

// RefreshCard kartı üyeliğin güncel geçerlilik aralığıyla yeniden üretir.
// Doğrulama token'ı asla yeniden üretilmez; dağıtılmış karekodlar geçerli kalır.
func (s *IssuanceService) RefreshCard(ctx context.Context, cardID uint) (*models.DigitalCard, error) {
	card, err := s.findCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.Status == models.CardStatusRevoked {
		return nil, ErrInvalidStatusChange
	}

	membership, org, err := s.resolveMembership(ctx, card.MembershipID)
	if err != nil {
		return nil, err
	}

	provider := s.providers[card.CardType]
	if provider == nil {
		return nil, ErrUnsupportedCardType
	}
	result, err := provider.RefreshCredential(ctx, card, membership, org)
	if err != nil {
		return nil, err
	}

	update := map[string]interface{}{
		"status":           models.CardStatusUpdated,
		"expires_at":       membership.EndDate,
		"reference_url":    result.ReferenceURL,
		"remote_object_id": result.RemoteObjectID,
	}
	if err := s.cards.UpdateIssued(ctx, card.ID, update); err != nil {
		configslog.Log.Error("Kart güncellemesi kaydedilemedi", zap.Uint("card_id", card.ID), zap.Error(err))
		return nil, err
	}

	configslog.SLog.Infof("Kart yenilendi: ID %d", card.ID)
	return s.findCard(ctx, card.ID)
}

// RevokeCard kartı iptal eder (yönetimsel dış tetik). Kayıt silinmez.
func (s *IssuanceService) RevokeCard(ctx context.Context, cardID uint) error {
	card, err := s.findCard(ctx, cardID)
	if err != nil {
		return err
	}
	if card.Status == models.CardStatusRevoked {
		return nil // Zaten iptal; idempotent
	}
	if err := s.cards.MarkStatus(ctx, card.ID, models.CardStatusRevoked); err != nil {
		return err
	}
	configslog.SLog.Infof("Kart iptal edildi: ID %d", card.ID)
	return nil
}

// ExpireCard kartı süresi dolmuş olarak işaretler (dış toplu işin tetiklediği geçiş).
func (s *IssuanceService) ExpireCard(ctx context.Context, cardID uint) error {
	card, err := s.findCard(ctx, cardID)
	if err != nil {
		return err
	}
	if !card.IsVerifiable() {
		return ErrInvalidStatusChange
	}
	return s.cards.MarkStatus(ctx, card.ID, models.CardStatusExpired)
}

func (s *IssuanceService) GetCardsForMembership(ctx context.Context, membershipID uint) ([]models.DigitalCard, error) {
	if membershipID == 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.memberships.FindByID(ctx, membershipID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return s.cards.ListByMembership(ctx, membershipID)
}

func (s *IssuanceService) GetCardsPaginated(params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	cards, totalCount, err := s.cards.GetAllPaginated(params)
	if err != nil {
		configslog.Log.Error("Kart listesi alınırken hata", zap.Error(err))
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: cards,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalCount,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// GetPassBundle depodaki paketi okur; dosya kayıpsa karttan yeniden üretir.
func (s *IssuanceService) GetPassBundle(ctx context.Context, serial string) ([]byte, error) {
	card, err := s.cards.FindBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}

	data, err := s.apple.StoredBundle(serial)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrPassNotFound) {
		return nil, err
	}

	// Depo dosyası kaybolmuş; kayıt defterindeki karttan yeniden üret.
	configslog.SLog.Warnf("Paket dosyası bulunamadı, yeniden üretiliyor: %s", serial)
	membership, org, err := s.resolveMembership(ctx, card.MembershipID)
	if err != nil {
		return nil, err
	}
	if _, err := s.apple.RefreshCredential(ctx, card, membership, org); err != nil {
		return nil, err
	}
	return s.apple.StoredBundle(serial)
}

// --- Yardımcılar ---

func (s *IssuanceService) findCard(ctx context.Context, cardID uint) (*models.DigitalCard, error) {
	if cardID == 0 {
		return nil, ErrInvalidInput
	}
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// resolveMembership üyeliği ve organizasyonu doğrulayıp getirir.
func (s *IssuanceService) resolveMembership(ctx context.Context, membershipID uint) (*models.Membership, *models.Organization, error) {
	membership, err := s.memberships.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrMembershipNotFound
		}
		return nil, nil, err
	}
	if !membership.DatesValid() {
		return nil, nil, ErrInvalidMembershipDates
	}

	org := &membership.Organization
	if org.ID == 0 {
		org, err = s.orgs.FindByID(ctx, membership.OrganizationID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, nil, ErrOrganizationNotFound
			}
			return nil, nil, err
		}
	}
	return membership, org, nil
}

var _ IIssuanceService = (*IssuanceService)(nil)
