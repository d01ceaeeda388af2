package configs

import (
	"os"
	"strconv"
	"time"

	"uyekart.link/configs/configslog"

	"github.com/joho/godotenv"
)

// Config uygulamanın çalışma zamanı ayarlarını tutar.
// Tüm değerler .env dosyasından veya ortam değişkenlerinden bir kez okunur.
type Config struct {
	AppEnv  string
	Port    string
	BaseURL string // Public URL (referans ve doğrulama linkleri bunun üstüne kurulur)

	// Doğrulama token'ı türetme anahtarı
	TokenSecret string

	// Platform B (.pkpass) ayarları
	PassTypeID      string
	TeamID          string
	PassCertPath    string
	PassKeyPath     string
	PassWWDRPath    string
	PassStorageDir  string
	PassDescription string

	// Platform A (uzak cüzdan dizini) ayarları
	WalletAPIBaseURL string
	WalletIssuerID   string
	WalletSaveBase   string
	WalletKeyPath    string
	WalletOrigins    []string

	// Uzak çağrılar için zaman sınırları
	RemoteTimeout time.Duration
	AssetTimeout  time.Duration
}

var cfg *Config

// Load .env dosyasını yükler ve Config'i doldurur. main başında bir kez çağrılır.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// .env yoksa ortam değişkenleriyle devam edilir (örn. container ortamı)
		configslog.SLog.Info(".env dosyası bulunamadı, ortam değişkenleri kullanılacak.")
	}

	cfg = &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Port:    getEnv("PORT", "3000"),
		BaseURL: getEnv("BASE_URL", "http://localhost:3000"),

		TokenSecret: getEnv("VERIFY_TOKEN_SECRET", "degistir-beni"),

		PassTypeID:      getEnv("PASS_TYPE_ID", "pass.link.uyekart.membership"),
		TeamID:          getEnv("PASS_TEAM_ID", ""),
		PassCertPath:    getEnv("PASS_CERT_PATH", "./certs/pass_cert.pem"),
		PassKeyPath:     getEnv("PASS_KEY_PATH", "./certs/pass_key.pem"),
		PassWWDRPath:    getEnv("PASS_WWDR_PATH", "./certs/wwdr.pem"),
		PassStorageDir:  getEnv("PASS_STORAGE_DIR", "./storage/passes"),
		PassDescription: getEnv("PASS_DESCRIPTION", "Üyelik Kartı"),

		WalletAPIBaseURL: getEnv("WALLET_API_BASE_URL", "https://walletobjects.googleapis.com/walletobjects/v1"),
		WalletIssuerID:   getEnv("WALLET_ISSUER_ID", ""),
		WalletSaveBase:   getEnv("WALLET_SAVE_BASE", "https://pay.google.com/gp/v/save"),
		WalletKeyPath:    getEnv("WALLET_KEY_PATH", "./certs/wallet_key.pem"),
		WalletOrigins:    []string{getEnv("BASE_URL", "http://localhost:3000")},

		RemoteTimeout: getDurationEnv("REMOTE_TIMEOUT_SECONDS", 10*time.Second),
		AssetTimeout:  getDurationEnv("ASSET_TIMEOUT_SECONDS", 5*time.Second),
	}
	return cfg
}

// Get yüklenmiş konfigürasyonu döndürür. Load çağrılmadan kullanılırsa
// varsayılanlarla doldurur (testler için pratik).
func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
