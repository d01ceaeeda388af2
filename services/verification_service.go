// services/verification_service.go
package services

import (
	"context"
	"errors"
	"time"

	"uyekart.link/configs/configslog"
	"uyekart.link/models"
	"uyekart.link/repositories"

	"go.uber.org/zap"
)

// VerificationResult public doğrulama cevabıdır: üyelik kaydının tamamı değil,
// asgari bir geçerlilik izdüşümü. Geçersiz sonuçlar hiçbir ek alan taşımaz;
// bilinmeyen token ile iptal edilmiş kartın cevabı birbirinden ayırt edilemez.
type VerificationResult struct {
	Valid            bool       `json:"valid"`
	HolderName       string     `json:"holder_name,omitempty"`
	OrganizationName string     `json:"organization_name,omitempty"`
	MembershipKind   string     `json:"membership_kind,omitempty"`
	Status           string     `json:"status,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// IVerificationService public doğrulama işlemi için arayüz.
type IVerificationService interface {
	// Verify opak token'ı geçerlilik kararına çözer. Hiçbir şey mutasyona uğratmaz.
	Verify(ctx context.Context, token string) VerificationResult
}

// VerificationService IVerificationService arayüzünü uygular.
type VerificationService struct {
	cards       repositories.ICardRepository
	memberships repositories.IMembershipRepository
	orgs        repositories.IOrganizationRepository
}

// NewVerificationService yeni bir VerificationService örneği oluşturur.
func NewVerificationService() IVerificationService {
	return &VerificationService{
		cards:       repositories.NewCardRepository(),
		memberships: repositories.NewMembershipRepository(),
		orgs:        repositories.NewOrganizationRepository(),
	}
}

// NewVerificationServiceWithDeps bağımlılıkları dışarıdan alır (testler için).
func NewVerificationServiceWithDeps(
	cards repositories.ICardRepository,
	memberships repositories.IMembershipRepository,
	orgs repositories.IOrganizationRepository,
) IVerificationService {
	return &VerificationService{cards: cards, memberships: memberships, orgs: orgs}
}

// Verify token'ı karta, kartı üyeliğe çözer ve geçerliliği hesaplar.
// Bu uç nokta tasarım gereği kimlik doğrulamasızdır; iç hatalar public
// tarafa asla sızdırılmaz, kapalı tarafta (fail closed) geçersiz dönülür ve
// operatör için loglanır. Varlık sızıntısı da yoktur: bilinmeyen token, başka
// hiçbir alan doldurulmadan valid=false döner.
func (s *VerificationService) Verify(ctx context.Context, token string) VerificationResult {
	invalid := VerificationResult{Valid: false}

	if token == "" {
		return invalid
	}

	card, err := s.cards.FindByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			configslog.Log.Error("Doğrulama: kart sorgusu başarısız", zap.Error(err))
		}
		return invalid
	}

	if !card.IsVerifiable() {
		return invalid
	}

	membership, err := s.memberships.FindByID(ctx, card.MembershipID)
	if err != nil {
		// Tutarsız veri: kart var ama üyelik yok. Kapalı tarafta kal.
		configslog.Log.Error("Doğrulama: kartın üyeliği çözülemedi",
			zap.Uint("card_id", card.ID), zap.Uint("membership_id", card.MembershipID), zap.Error(err))
		return invalid
	}

	if membership.Status != models.MembershipStatusActive {
		return invalid
	}
	if time.Now().After(membership.EndDate) {
		return invalid
	}

	orgName := membership.Organization.Name
	if orgName == "" {
		if org, err := s.orgs.FindByID(ctx, membership.OrganizationID); err == nil {
			orgName = org.Name
		}
	}

	expiresAt := membership.EndDate
	return VerificationResult{
		Valid:            true,
		HolderName:       membership.HolderName,
		OrganizationName: orgName,
		MembershipKind:   membership.Kind,
		Status:           card.Status,
		ExpiresAt:        &expiresAt,
	}
}

var _ IVerificationService = (*VerificationService)(nil)
