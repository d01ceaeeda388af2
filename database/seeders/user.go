package seeders

import (
	"errors"
	"os"

	"uyekart.link/configs/configslog"
	"uyekart.link/models"
	"uyekart.link/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSystemUser denetim alanları ve yönetim işlemleri için sistem
// kullanıcısını oluşturur. Kullanıcı zaten varsa dokunulmaz.
func SeedSystemUser(db *gorm.DB) error {
	email := os.Getenv("SYSTEM_USER_EMAIL")
	if email == "" {
		email = "system@uyekart.link"
	}
	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if password == "" {
		// Sabit bir varsayılan yerine ilk tohumlamada rastgele parola üretilir
		// ve bir kez loglanır; operatör ilk girişten sonra değiştirir.
		generated, err := utils.GenerateSecureRandomString(16)
		if err != nil {
			configslog.Log.Error("Sistem kullanıcısı parolası üretilemedi", zap.Error(err))
			return err
		}
		password = generated
		configslog.SLog.Warnf("SYSTEM_USER_PASSWORD tanımlı değil, üretilen parola: %s", generated)
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		configslog.SLog.Debug("Sistem kullanıcısı zaten mevcut, oluşturma atlanıyor.")
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Sistem kullanıcısı kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Sistem kullanıcısı parolası hashlenemedi", zap.Error(err))
		return err
	}

	user := models.User{
		Name:     "Sistem",
		Email:    email,
		Password: string(hashed),
		IsSystem: true,
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Sistem kullanıcısı oluşturulamadı", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Sistem kullanıcısı oluşturuldu (ID: %d).", user.ID)
	return nil
}
