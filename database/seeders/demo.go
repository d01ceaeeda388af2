package seeders

import (
	"context"
	"errors"
	"os"
	"time"

	"uyekart.link/configs/configslog"
	"uyekart.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDemoData yerel geliştirme için örnek bir organizasyon ve üyelikler
// oluşturur. Yalnızca APP_ENV=development iken çalışır ve idempotenttir.
func SeedDemoData(db *gorm.DB) error {
	if os.Getenv("APP_ENV") == "production" {
		configslog.SLog.Debug("Production ortamında demo veri seed edilmez, atlanıyor.")
		return nil
	}

	systemUserID := uint(1)
	ctx := context.WithValue(context.Background(), models.ContextUserIDKey, systemUserID)

	var org models.Organization
	result := db.Where("slug = ?", "demo-dernek").First(&org)
	if result.Error == nil {
		configslog.SLog.Debug("Demo organizasyon zaten mevcut, seed atlanıyor.")
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Demo organizasyon kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	org = models.Organization{
		Name:           "Demo Derneği",
		Slug:           "demo-dernek",
		PrimaryColor:   "#1B5E20",
		SecondaryColor: "#FFFFFF",
	}
	if err := db.WithContext(ctx).Create(&org).Error; err != nil {
		configslog.Log.Error("Demo organizasyon oluşturulamadı", zap.Error(err))
		return err
	}

	now := time.Now()
	memberships := []models.Membership{
		{
			OrganizationID: org.ID,
			HolderName:     "Ayşe Yılmaz",
			Kind:           "Standart",
			StartDate:      now.AddDate(0, -6, 0),
			EndDate:        now.AddDate(0, 6, 0),
			Status:         models.MembershipStatusActive,
		},
		{
			OrganizationID: org.ID,
			HolderName:     "Mehmet Demir",
			Kind:           "Öğrenci",
			StartDate:      now.AddDate(-2, 0, 0),
			EndDate:        now.AddDate(-1, 0, 0),
			Status:         models.MembershipStatusExpired,
		},
	}
	for i := range memberships {
		if err := db.WithContext(ctx).Create(&memberships[i]).Error; err != nil {
			configslog.Log.Error("Demo üyelik oluşturulamadı",
				zap.String("holder", memberships[i].HolderName), zap.Error(err))
			return err
		}
	}

	configslog.SLog.Infof("Demo veriler oluşturuldu: organizasyon %d, %d üyelik.", org.ID, len(memberships))
	return nil
}
