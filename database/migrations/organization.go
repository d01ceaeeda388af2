package migrations

import (
	"uyekart.link/configs/configslog"
	"uyekart.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateOrganizationsTable(db *gorm.DB) error {
	configslog.SLog.Info("Organizations tablosu migrate ediliyor...")
	if err := db.AutoMigrate(&models.Organization{}); err != nil {
		configslog.Log.Error("Organizations tablosu migrate edilemedi", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Organizations tablosu migrate işlemi tamamlandı.")
	return nil
}
