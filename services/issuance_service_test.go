package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"uyekart.link/configs/configslog"
	"uyekart.link/models"
	"uyekart.link/pkg/queryparams"
	"uyekart.link/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	os.Exit(m.Run())
}

// fakeProvider platform çağrılarını sayan sahte cüzdan sağlayıcısıdır.
// Her EnsureCredential çağrısı ayrı bir seri numarası üretir ki eşzamanlı
// üretimde hangi çağrının kazandığı gözlemlenebilsin.
type fakeProvider struct {
	ensureCalls  atomic.Int64
	refreshCalls atomic.Int64
	failWith     error
}

func (p *fakeProvider) EnsureCredential(ctx context.Context, m *models.Membership, org *models.Organization, token string) (*ProviderResult, error) {
	n := p.ensureCalls.Add(1)
	if p.failWith != nil {
		return nil, p.failWith
	}
	return &ProviderResult{
		SerialNumber:   fmt.Sprintf("seri-%d-%d", m.ID, n),
		RemoteObjectID: fmt.Sprintf("obj-%d", m.ID),
		ReferenceURL:   fmt.Sprintf("https://uyekart.link/passes/seri-%d-%d.pkpass", m.ID, n),
	}, nil
}

func (p *fakeProvider) RefreshCredential(ctx context.Context, card *models.DigitalCard, m *models.Membership, org *models.Organization) (*ProviderResult, error) {
	p.refreshCalls.Add(1)
	if p.failWith != nil {
		return nil, p.failWith
	}
	return &ProviderResult{
		SerialNumber:   card.SerialNumber,
		RemoteObjectID: card.RemoteObjectID,
		ReferenceURL:   card.ReferenceURL + "?v=2",
	}, nil
}

type serviceFixture struct {
	db       *gorm.DB
	service  IIssuanceService
	provider *fakeProvider
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:svc-%d?mode=memory&cache=shared&_pragma=busy_timeout(5000)", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.Membership{},
		&models.DigitalCard{},
	))

	provider := &fakeProvider{}
	service := NewIssuanceServiceWithDeps(
		repositories.NewCardRepositoryTx(db),
		repositories.NewMembershipRepositoryTx(db),
		repositories.NewOrganizationRepositoryTx(db),
		map[string]WalletProvider{
			models.CardTypeApple:  provider,
			models.CardTypeGoogle: provider,
		},
		nil,
		"test-gizli-anahtar",
	)
	return &serviceFixture{db: db, service: service, provider: provider}
}

func (f *serviceFixture) seedMembership(t *testing.T, endDate time.Time, status string) *models.Membership {
	t.Helper()
	org := &models.Organization{
		Name:         "Demo Derneği",
		Slug:         fmt.Sprintf("demo-%d", time.Now().UnixNano()),
		PrimaryColor: "#1B5E20",
	}
	require.NoError(t, f.db.Create(org).Error)

	membership := &models.Membership{
		OrganizationID: org.ID,
		HolderName:     "Ayşe Yılmaz",
		Kind:           "Standart",
		StartDate:      time.Now().AddDate(-1, 0, 0),
		EndDate:        endDate,
		Status:         status,
	}
	require.NoError(t, f.db.Create(membership).Error)
	return membership
}

func TestIssueCard_CreatesCardWithMembershipExpiry(t *testing.T) {
	f := newServiceFixture(t)
	endDate := time.Now().AddDate(1, 0, 0).Truncate(time.Second)
	m := f.seedMembership(t, endDate, models.MembershipStatusActive)

	card, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)

	assert.Equal(t, models.CardStatusIssued, card.Status)
	assert.Equal(t, m.ID, card.MembershipID)
	assert.WithinDuration(t, endDate, card.ExpiresAt, time.Second)
	assert.NotEmpty(t, card.VerificationToken)
	assert.NotEmpty(t, card.ReferenceURL)
	assert.Equal(t, int64(1), f.provider.ensureCalls.Load())
}

func TestIssueCard_SecondCallReturnsSameCard(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	first, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)

	second, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.VerificationToken, second.VerificationToken)
	// Hızlı yol: ikinci çağrı platforma gitmez.
	assert.Equal(t, int64(1), f.provider.ensureCalls.Load())

	var count int64
	require.NoError(t, f.db.Model(&models.DigitalCard{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueCard_ConcurrentCallsProduceSingleCard(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	const workers = 8
	var wg sync.WaitGroup
	ids := make([]uint, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			card, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeGoogle)
			if err == nil {
				ids[i] = card.ID
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, f.db.Model(&models.DigitalCard{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueCard_DifferentPlatformsGetSeparateCardsSameToken(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	apple, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)
	google, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeGoogle)
	require.NoError(t, err)

	assert.NotEqual(t, apple.ID, google.ID)
	// Token üyelikten türetilir, platformdan bağımsızdır.
	assert.Equal(t, apple.VerificationToken, google.VerificationToken)
}

func TestIssueCard_ValidationErrors(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	_, err := f.service.IssueCard(context.Background(), 0, models.CardTypeApple)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.IssueCard(context.Background(), m.ID, "samsung")
	assert.ErrorIs(t, err, ErrUnsupportedCardType)

	_, err = f.service.IssueCard(context.Background(), 99999, models.CardTypeApple)
	assert.ErrorIs(t, err, ErrMembershipNotFound)

	assert.Equal(t, int64(0), f.provider.ensureCalls.Load())
}

func TestIssueCard_InvalidMembershipDatesRejected(t *testing.T) {
	f := newServiceFixture(t)
	// end_date, start_date'ten önce: tutarsız kayıt, üretim reddedilir.
	m := f.seedMembership(t, time.Now().AddDate(-2, 0, 0), models.MembershipStatusActive)

	_, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	assert.ErrorIs(t, err, ErrInvalidMembershipDates)
}

func TestIssueCard_ProviderFailureLeavesNoRecord(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)
	f.provider.failWith = fmt.Errorf("uzak servis kapalı")

	_, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeGoogle)
	require.Error(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.DigitalCard{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRefreshCard_UpdatesValidityKeepsToken(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	card, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)

	// Üyelik uzatıldı.
	newEnd := time.Now().AddDate(2, 0, 0).Truncate(time.Second)
	require.NoError(t, f.db.Model(&models.Membership{}).Where("id = ?", m.ID).Update("end_date", newEnd).Error)

	refreshed, err := f.service.RefreshCard(context.Background(), card.ID)
	require.NoError(t, err)

	assert.Equal(t, card.ID, refreshed.ID)
	assert.Equal(t, models.CardStatusUpdated, refreshed.Status)
	assert.WithinDuration(t, newEnd, refreshed.ExpiresAt, time.Second)
	assert.Equal(t, card.VerificationToken, refreshed.VerificationToken)
	assert.Equal(t, int64(1), f.provider.refreshCalls.Load())
}

func TestRefreshCard_RevokedCardRejected(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	card, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)
	require.NoError(t, f.service.RevokeCard(context.Background(), card.ID))

	_, err = f.service.RefreshCard(context.Background(), card.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
	assert.Equal(t, int64(0), f.provider.refreshCalls.Load())
}

func TestRevokeCard_IsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	card, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeCard(context.Background(), card.ID))
	require.NoError(t, f.service.RevokeCard(context.Background(), card.ID))

	cards, err := f.service.GetCardsForMembership(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, models.CardStatusRevoked, cards[0].Status)
}

func TestExpireCard_OnlyFromVerifiableStates(t *testing.T) {
	f := newServiceFixture(t)
	m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)

	card, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
	require.NoError(t, err)

	require.NoError(t, f.service.ExpireCard(context.Background(), card.ID))

	// İptal edilmiş kart süresi doldurulamaz; süresi dolmuş kart da tekrar doldurulamaz.
	assert.ErrorIs(t, f.service.ExpireCard(context.Background(), card.ID), ErrInvalidStatusChange)
}

func TestGetCardsForMembership_UnknownMembership(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.service.GetCardsForMembership(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestGetCardsPaginated(t *testing.T) {
	f := newServiceFixture(t)
	for i := 0; i < 3; i++ {
		m := f.seedMembership(t, time.Now().AddDate(1, 0, 0), models.MembershipStatusActive)
		_, err := f.service.IssueCard(context.Background(), m.ID, models.CardTypeApple)
		require.NoError(t, err)
	}

	result, err := f.service.GetCardsPaginated(queryparams.ListParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Meta.TotalItems)
	assert.Equal(t, 2, result.Meta.TotalPages)
	cards, ok := result.Data.([]models.DigitalCard)
	require.True(t, ok)
	assert.Len(t, cards, 2)
}
