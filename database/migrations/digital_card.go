package migrations

import (
	"uyekart.link/configs/configslog"
	"uyekart.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateDigitalCardsTable kart kayıt defteri tablosunu oluşturur.
// (membership_id, card_type) uniqueness constraint'i model etiketlerinden gelir;
// üretim idempotentliği bu constraint'e dayanır.
func MigrateDigitalCardsTable(db *gorm.DB) error {
	configslog.SLog.Info("Digital_cards tablosu migrate ediliyor...")
	if err := db.AutoMigrate(&models.DigitalCard{}); err != nil {
		configslog.Log.Error("Digital_cards tablosu migrate edilemedi", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Digital_cards tablosu migrate işlemi tamamlandı.")
	return nil
}
