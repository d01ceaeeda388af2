package main

import (
	"os"
	"os/signal"
	"syscall"

	"uyekart.link/configs"
	"uyekart.link/configs/configsdatabase"
	"uyekart.link/configs/configslog"
	"uyekart.link/pkg/gwallet"
	"uyekart.link/pkg/passkit"
	"uyekart.link/routes"
	"uyekart.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configs.Load()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	// İmzalama kimliği süreç genelinde tektir ve başlangıçta bir kez yüklenir.
	// Yüklenemiyorsa bu bir konfigürasyon hatasıdır; sunucu hiç başlamaz.
	signer, err := passkit.LoadSigner(cfg.PassCertPath, cfg.PassKeyPath, cfg.PassWWDRPath)
	if err != nil {
		configslog.Log.Fatal("İmzalama kimliği yüklenemedi", zap.Error(err))
	}

	walletKey, err := gwallet.LoadPrivateKey(cfg.WalletKeyPath)
	if err != nil {
		configslog.Log.Fatal("Cüzdan imza anahtarı yüklenemedi", zap.Error(err))
	}
	walletClient := gwallet.NewClient(gwallet.Options{
		BaseURL:  cfg.WalletAPIBaseURL,
		IssuerID: cfg.WalletIssuerID,
		SaveBase: cfg.WalletSaveBase,
		SignerID: cfg.WalletIssuerID,
		Key:      walletKey,
		Origins:  cfg.WalletOrigins,
		Timeout:  cfg.RemoteTimeout,
	})

	issuanceService := services.NewIssuanceService(cfg, signer, walletClient)
	verificationService := services.NewVerificationService()

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		AppName:     "uyekart.link",
		BodyLimit:   1 << 20,
		ViewsLayout: "layouts/main",
	})

	routes.SetupRoutes(app, issuanceService, verificationService)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("Kapatma sinyali alındı, sunucu durduruluyor...")
		_ = app.Shutdown()
	}()

	configslog.SLog.Infof("Sunucu %s portunda başlatılıyor...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
	}

	configslog.SLog.Info("Sunucu durduruldu.")
}
