package models

// User sistem kullanıcısıdır. Kimlik doğrulama ve oturum yönetimi bu çekirdeğin
// dışındadır; bu model denetim alanları ve seed edilen sistem kullanıcısı için tutulur.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	IsSystem bool   `gorm:"default:false"`
}
