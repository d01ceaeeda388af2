package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"uyekart.link/configs"
	"uyekart.link/configs/configslog"
	"uyekart.link/models"
	"uyekart.link/pkg/passkit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplePassProvider platform B akışını uygular: bildirim belgesi + manifest +
// ayrık imza + görseller tek bir .pkpass arşivine paketlenir, byte'lar yerel
// depoya yazılır ve indirme referansı üretilir.
type ApplePassProvider struct {
	builder     *passkit.Builder
	assets      *passkit.AssetFetcher
	passTypeID  string
	teamID      string
	description string
	storageDir  string
	baseURL     string
}

// NewApplePassProvider konfigürasyondan provider kurar. Signer başlangıçta bir
// kez yüklenmiş olmalıdır; yüklenemiyorsa üretim hiç başlamaz.
func NewApplePassProvider(cfg *configs.Config, signer *passkit.Signer) *ApplePassProvider {
	return &ApplePassProvider{
		builder:     passkit.NewBuilder(signer),
		assets:      passkit.NewAssetFetcher(cfg.AssetTimeout),
		passTypeID:  cfg.PassTypeID,
		teamID:      cfg.TeamID,
		description: cfg.PassDescription,
		storageDir:  cfg.PassStorageDir,
		baseURL:     cfg.BaseURL,
	}
}

// EnsureCredential yeni bir seri numarasıyla paket üretir ve indirme
// referansını döndürür.
func (p *ApplePassProvider) EnsureCredential(ctx context.Context, m *models.Membership, org *models.Organization, token string) (*ProviderResult, error) {
	serial := uuid.NewString()
	return p.buildAndStore(ctx, serial, m, org, token)
}

// RefreshCredential mevcut seri numarası ve token ile paketi yeniden üretir;
// indirme referansı değişmez.
func (p *ApplePassProvider) RefreshCredential(ctx context.Context, card *models.DigitalCard, m *models.Membership, org *models.Organization) (*ProviderResult, error) {
	return p.buildAndStore(ctx, card.SerialNumber, m, org, card.VerificationToken)
}

// StoredBundle daha önce üretilmiş paketin byte'larını depodan okur.
func (p *ApplePassProvider) StoredBundle(serial string) ([]byte, error) {
	data, err := os.ReadFile(p.bundlePath(serial))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrPassNotFound
	}
	if err != nil {
		return nil, &passkit.ArchiveError{Op: "paket okuma", Err: err}
	}
	return data, nil
}

// RemoveBundle yarış kaybeden üretim denemesinin artığını temizler.
func (p *ApplePassProvider) RemoveBundle(serial string) {
	if serial == "" {
		return
	}
	if err := os.Remove(p.bundlePath(serial)); err != nil && !errors.Is(err, os.ErrNotExist) {
		configslog.Log.Warn("Artık paket dosyası silinemedi", zap.String("serial", serial), zap.Error(err))
	}
}

func (p *ApplePassProvider) buildAndStore(ctx context.Context, serial string, m *models.Membership, org *models.Organization, token string) (*ProviderResult, error) {
	verifyURL := p.baseURL + "/v/" + token

	pass := &passkit.Pass{
		FormatVersion:      1,
		PassTypeIdentifier: p.passTypeID,
		SerialNumber:       serial,
		TeamIdentifier:     p.teamID,
		OrganizationName:   org.Name,
		Description:        p.description,
		LogoText:           org.Name,
		BackgroundColor:    org.PrimaryColor,
		ForegroundColor:    org.SecondaryColor,
		ExpirationDate:     m.EndDate.Format(time.RFC3339),
		Barcodes: []passkit.Barcode{{
			Format:          passkit.BarcodeFormatQR,
			Message:         verifyURL,
			MessageEncoding: passkit.BarcodeEncodingLatin,
			AltText:         token,
		}},
		Generic: &passkit.PassStructure{
			PrimaryFields: []passkit.PassField{
				{Key: "holder", Label: "ÜYE", Value: m.HolderName},
			},
			SecondaryFields: []passkit.PassField{
				{Key: "kind", Label: "ÜYELİK TÜRÜ", Value: m.Kind},
				{Key: "valid_until", Label: "GEÇERLİLİK", Value: m.EndDate.Format("02.01.2006")},
			},
			BackFields: []passkit.PassField{
				{Key: "verify", Label: "Doğrulama", Value: verifyURL},
			},
		},
	}

	// Logo indirilemezse varsayılan görsel kullanılır; üretim durmaz.
	logo := p.assets.FetchLogo(ctx, org.LogoURL, org.PrimaryColor)
	assets := make(map[string][]byte, len(passkit.AssetNames))
	for _, name := range passkit.AssetNames {
		assets[name] = logo
	}

	bundle, err := p.builder.Build(pass, assets)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.storageDir, 0o750); err != nil {
		return nil, &passkit.ArchiveError{Op: "depo dizini", Err: err}
	}
	if err := os.WriteFile(p.bundlePath(serial), bundle, 0o640); err != nil {
		return nil, &passkit.ArchiveError{Op: "paket kaydı", Err: err}
	}

	return &ProviderResult{
		SerialNumber:   serial,
		RemoteObjectID: serial,
		ReferenceURL:   fmt.Sprintf("%s/passes/%s.pkpass", p.baseURL, serial),
	}, nil
}

func (p *ApplePassProvider) bundlePath(serial string) string {
	return filepath.Join(p.storageDir, serial+".pkpass")
}

var _ WalletProvider = (*ApplePassProvider)(nil)
