package passkit

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"uyekart.link/configs/configslog"

	"go.uber.org/zap"
)

// Pakette beklenen sabit görsel adları. Logo, hedef platformun istediği
// çözünürlük adlarında birden fazla kez yer alır.
var AssetNames = []string{"icon.png", "icon@2x.png", "logo.png", "logo@2x.png"}

// Logo indirme için üst sınır; kötü niyetli/bozuk kaynaklara karşı.
const maxAssetSize = 2 << 20 // 2 MiB

// AssetFetcher organizasyon logosunu indirir. İndirme en iyi çaba esaslıdır:
// hata durumunda üretim durmaz, varsayılan görsel kullanılır.
type AssetFetcher struct {
	client *http.Client
}

// NewAssetFetcher zaman sınırlı bir fetcher oluşturur.
func NewAssetFetcher(timeout time.Duration) *AssetFetcher {
	return &AssetFetcher{client: &http.Client{Timeout: timeout}}
}

// FetchLogo verilen URL'den logoyu indirir. URL boşsa veya indirme herhangi bir
// nedenle başarısız olursa (ağ hatası, zaman aşımı, HTTP hatası) fallbackColor
// renginde üretilmiş varsayılan görsel döner; hata asla yukarı taşınmaz.
func (f *AssetFetcher) FetchLogo(ctx context.Context, url, fallbackColor string) []byte {
	if url == "" {
		return DefaultLogo(fallbackColor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		configslog.Log.Warn("Logo isteği oluşturulamadı, varsayılan görsel kullanılacak", zap.String("url", url), zap.Error(err))
		return DefaultLogo(fallbackColor)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		configslog.Log.Warn("Logo indirilemedi, varsayılan görsel kullanılacak", zap.String("url", url), zap.Error(err))
		return DefaultLogo(fallbackColor)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		configslog.Log.Warn("Logo kaynağı beklenmeyen durum döndürdü, varsayılan görsel kullanılacak",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return DefaultLogo(fallbackColor)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil || len(data) == 0 {
		configslog.Log.Warn("Logo gövdesi okunamadı, varsayılan görsel kullanılacak", zap.String("url", url), zap.Error(err))
		return DefaultLogo(fallbackColor)
	}
	return data
}

// DefaultLogo organizasyonun ana renginden tek renkli bir PNG üretir.
// Renk parse edilemezse nötr gri kullanılır.
func DefaultLogo(hexColor string) []byte {
	c, err := parseHexColor(hexColor)
	if err != nil {
		c = color.RGBA{R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF}
	}

	const size = 90
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Bellek içi encode pratikte başarısız olmaz; yine de boş dönmeyelim.
		return nil
	}
	return buf.Bytes()
}

func parseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("geçersiz renk: %q", s)
	}
	r, err := strconv.ParseUint(s[1:3], 16, 8)
	if err != nil {
		return color.RGBA{}, err
	}
	g, err := strconv.ParseUint(s[3:5], 16, 8)
	if err != nil {
		return color.RGBA{}, err
	}
	b, err := strconv.ParseUint(s[5:7], 16, 8)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}, nil
}
