package models

import "time"

// Kart platform türleri. Tasarımda tam olarak iki varyant vardır.
const (
	CardTypeApple  = "apple"  // İmzalı .pkpass paketi
	CardTypeGoogle = "google" // Uzak cüzdan dizinindeki versiyonlu nesne
)

// Kart yaşam döngüsü durumları. Kayıtlar asla silinmez; iptal ve süre dolumu
// durum geçişi olarak tutulur ki doğrulama geçmişi korunabilsin.
const (
	CardStatusIssued  = "issued"
	CardStatusUpdated = "updated"
	CardStatusExpired = "expired"
	CardStatusRevoked = "revoked"
)

// DigitalCard üretilmiş bir cüzdan kartının yetkili yerel kaydıdır.
// (membership_id, card_type) çifti başına en fazla bir kart bulunur;
// bu kural uygulama kilidiyle değil, veritabanı uniqueness constraint'i ile korunur.
type DigitalCard struct {
	BaseModel
	MembershipID   uint   `gorm:"not null;uniqueIndex:idx_cards_membership_type" json:"membership_id"`
	OrganizationID uint   `gorm:"index;not null" json:"organization_id"`
	CardType       string `gorm:"type:varchar(10);not null;uniqueIndex:idx_cards_membership_type" json:"card_type"`

	// SerialNumber apple paketinin seri numarası; google tarafında boş kalır.
	SerialNumber string `gorm:"type:varchar(40);index" json:"serial_number,omitempty"`
	// RemoteObjectID uzak cüzdan dizininin atadığı kimlik (google) veya
	// yerel paket kimliği (apple).
	RemoteObjectID string `gorm:"type:varchar(255);not null" json:"remote_object_id"`
	// ReferenceURL kartın indirilebilir/kaydedilebilir referansıdır.
	ReferenceURL string `gorm:"type:varchar(1000);not null" json:"reference_url"`

	// VerificationToken (organization_id, membership_id) çiftinden deterministik
	// türetilir ve asla yeniden üretilmez; dağıtılmış karekodlar geçerli kalır.
	// Aynı üyeliğin iki platform kartı aynı token'ı paylaşır, bu yüzden sütun
	// tekil değildir; token üzerinden arama doğrulanabilir kaydı tercih eder.
	VerificationToken string `gorm:"type:varchar(64);index;not null" json:"-"`

	Status    string    `gorm:"type:varchar(10);not null;index" json:"status"`
	IssuedAt  time.Time `gorm:"not null" json:"issued_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"` // Her (yeniden) üretimde üyeliğin end_date'inden kopyalanır

	Membership   Membership   `gorm:"foreignKey:MembershipID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// IsVerifiable kartın doğrulamada geçerli sayılabilecek bir durumda olup olmadığını söyler.
func (c *DigitalCard) IsVerifiable() bool {
	return c.Status == CardStatusIssued || c.Status == CardStatusUpdated
}

// ValidCardType desteklenen kart türü kontrolü.
func ValidCardType(cardType string) bool {
	return cardType == CardTypeApple || cardType == CardTypeGoogle
}
