package models

// Organization kart görünümünü parametrize eden marka bilgilerini taşır.
// Organizasyon CRUD'u bu çekirdeğin dışındadır; buradan yalnızca okunur.
type Organization struct {
	BaseModel
	Name           string `gorm:"type:varchar(150);not null" json:"name"`
	Slug           string `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`
	Domain         string `gorm:"type:varchar(255)" json:"domain"`
	PrimaryColor   string `gorm:"type:varchar(7)" json:"primary_color"`   // Örn: #1B5E20
	SecondaryColor string `gorm:"type:varchar(7)" json:"secondary_color"` // Örn: #FFFFFF
	LogoURL        string `gorm:"type:varchar(500)" json:"logo_url"`
}
