package services

import (
	"context"
	"time"

	"uyekart.link/models"
	"uyekart.link/pkg/gwallet"
)

// GoogleWalletProvider platform A akışını uygular: organizasyon başına bir
// şablon (class), üye başına bir kart nesnesi. Şablon oluşturma idempotenttir;
// "zaten var" cevabı normal akışa çevrilir.
type GoogleWalletProvider struct {
	client  *gwallet.Client
	baseURL string
}

// NewGoogleWalletProvider provider kurar.
func NewGoogleWalletProvider(client *gwallet.Client, baseURL string) *GoogleWalletProvider {
	return &GoogleWalletProvider{client: client, baseURL: baseURL}
}

func (p *GoogleWalletProvider) EnsureCredential(ctx context.Context, m *models.Membership, org *models.Organization, token string) (*ProviderResult, error) {
	return p.ensure(ctx, m, org, token)
}

func (p *GoogleWalletProvider) RefreshCredential(ctx context.Context, card *models.DigitalCard, m *models.Membership, org *models.Organization) (*ProviderResult, error) {
	// Nesne kimliği deterministik olduğundan aynı akış günceller, yeniden yaratmaz.
	return p.ensure(ctx, m, org, card.VerificationToken)
}

func (p *GoogleWalletProvider) ensure(ctx context.Context, m *models.Membership, org *models.Organization, token string) (*ProviderResult, error) {
	class := &gwallet.Class{
		ID:                 p.client.ClassID(org.Slug),
		IssuerName:         org.Name,
		ProgramName:        org.Name + " Üyelik Kartı",
		HexBackgroundColor: org.PrimaryColor,
		LogoURL:            org.LogoURL,
	}
	ensured, err := p.client.EnsureClass(ctx, class)
	if err != nil {
		return nil, err
	}

	verifyURL := p.baseURL + "/v/" + token
	obj := &gwallet.Object{
		ID:         p.client.ObjectID(org.Slug, m.ID),
		ClassID:    ensured.ID,
		State:      gwallet.ObjectStateActive,
		HolderName: m.HolderName,
		Kind:       m.Kind,
		ValidTimeInterval: &gwallet.TimeInterval{
			Start: gwallet.DateTime{Date: m.StartDate.Format(time.RFC3339)},
			End:   gwallet.DateTime{Date: m.EndDate.Format(time.RFC3339)},
		},
		Barcode: &gwallet.Barcode{
			Type:          gwallet.BarcodeTypeQR,
			Value:         verifyURL,
			AlternateText: token,
		},
	}
	saved, err := p.client.SaveObject(ctx, obj)
	if err != nil {
		return nil, err
	}

	saveLink, err := p.client.SaveLink(saved)
	if err != nil {
		return nil, err
	}

	return &ProviderResult{
		RemoteObjectID: saved.ID,
		ReferenceURL:   saveLink,
	}, nil
}

var _ WalletProvider = (*GoogleWalletProvider)(nil)
