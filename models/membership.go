package models

import "time"

// Üyelik durumları. Üyelik kayıtları dış sistem tarafından yönetilir,
// bu çekirdek yalnızca okur.
const (
	MembershipStatusActive    = "active"
	MembershipStatusExpired   = "expired"
	MembershipStatusCancelled = "cancelled"
	MembershipStatusPending   = "pending"
)

// Membership bir organizasyona ait üyelik kaydıdır (okunur kopya).
type Membership struct {
	BaseModel
	OrganizationID uint      `gorm:"index;not null" json:"organization_id"`
	HolderName     string    `gorm:"type:varchar(150);not null" json:"holder_name"`
	Kind           string    `gorm:"type:varchar(60);not null" json:"kind"` // Örn: Standart, Öğrenci, Onursal
	StartDate      time.Time `gorm:"not null" json:"start_date"`
	EndDate        time.Time `gorm:"not null" json:"end_date"`
	Status         string    `gorm:"type:varchar(20);not null;index" json:"status"`

	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// DatesValid üyelik geçerlilik aralığının tutarlı olup olmadığını söyler
// (start_date <= end_date).
func (m *Membership) DatesValid() bool {
	return !m.StartDate.After(m.EndDate)
}
