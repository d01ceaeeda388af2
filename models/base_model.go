package models

import (
	"time"

	"gorm.io/gorm"
)

// ContextUserIDKey işlemi yapan kullanıcının ID'sini context üzerinden
// BaseModel hook'larına taşımak için kullanılan anahtar.
const ContextUserIDKey = "user_id"

// BaseModel tüm tablolarda ortak olan kimlik ve denetim (audit) alanlarını içerir.
// Soft delete kullanılır; hiçbir kayıt fiziksel olarak silinmez.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `gorm:"index" json:"-"`
	UpdatedBy *uint          `json:"-"`
	DeletedBy *uint          `json:"-"`
}

// BeforeCreate context'teki user_id ile CreatedBy alanını doldurur.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if userID, ok := userIDFromContext(tx); ok {
		m.CreatedBy = &userID
	}
	return nil
}

// BeforeUpdate context'teki user_id ile UpdatedBy alanını doldurur.
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if userID, ok := userIDFromContext(tx); ok {
		m.UpdatedBy = &userID
	}
	return nil
}

func userIDFromContext(tx *gorm.DB) (uint, bool) {
	if tx.Statement == nil || tx.Statement.Context == nil {
		return 0, false
	}
	userID, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint)
	return userID, ok && userID != 0
}
