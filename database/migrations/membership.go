package migrations

import (
	"uyekart.link/configs/configslog"
	"uyekart.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateMembershipsTable(db *gorm.DB) error {
	configslog.SLog.Info("Memberships tablosu migrate ediliyor...")
	if err := db.AutoMigrate(&models.Membership{}); err != nil {
		configslog.Log.Error("Memberships tablosu migrate edilemedi", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Memberships tablosu migrate işlemi tamamlandı.")
	return nil
}
