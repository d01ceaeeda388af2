package services

import (
	"context"

	"uyekart.link/models"
)

// ProviderResult bir cüzdan platformunun ürettiği kart referansıdır.
type ProviderResult struct {
	SerialNumber   string // Platforma göre boş olabilir
	RemoteObjectID string
	ReferenceURL   string
}

// WalletProvider iki farklı cüzdan platformunu tek üretim operasyonunun
// arkasında birleştiren yetenek arayüzüdür. Orkestratör yalnızca bu arayüze
// bağımlıdır; platforma özel tiplere asla dokunmaz.
type WalletProvider interface {
	// EnsureCredential üyelik için platform tarafındaki kart temsilini üretir
	// (veya idempotent biçimde mevcut olanı kullanır) ve erişilebilir referansı döndürür.
	EnsureCredential(ctx context.Context, m *models.Membership, org *models.Organization, token string) (*ProviderResult, error)

	// RefreshCredential mevcut kartın platform temsilini üyeliğin güncel
	// geçerlilik aralığıyla yeniden üretir. Doğrulama token'ı ve kart kimliği değişmez.
	RefreshCredential(ctx context.Context, card *models.DigitalCard, m *models.Membership, org *models.Organization) (*ProviderResult, error)
}
