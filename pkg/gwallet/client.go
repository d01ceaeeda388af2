package gwallet

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client uzak cüzdan dizini için HTTP istemcisidir. Tüm çağrılar zaman
// sınırlıdır; zaman aşımı dahil her ağ hatası ExternalServiceError olarak döner.
// İstemci kendi içinde yeniden deneme yapmaz.
type Client struct {
	httpClient *http.Client
	baseURL    string
	issuerID   string
	saveBase   string
	signerID   string
	key        *rsa.PrivateKey
	origins    []string
}

// Options istemci kurulum parametreleri.
type Options struct {
	BaseURL  string
	IssuerID string
	SaveBase string
	SignerID string // Save JWT'sinin iss alanı
	Key      *rsa.PrivateKey
	Origins  []string
	Timeout  time.Duration
}

// NewClient yeni bir cüzdan dizini istemcisi oluşturur.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		issuerID:   opts.IssuerID,
		saveBase:   opts.SaveBase,
		signerID:   opts.SignerID,
		key:        opts.Key,
		origins:    opts.Origins,
	}
}

// ClassID organizasyon slug'ından şablon kimliğini üretir.
func (c *Client) ClassID(orgSlug string) string {
	return fmt.Sprintf("%s.%s", c.issuerID, orgSlug)
}

// ObjectID üyelik için kart nesnesi kimliğini üretir.
func (c *Client) ObjectID(orgSlug string, membershipID uint) string {
	return fmt.Sprintf("%s.%s-m%d", c.issuerID, orgSlug, membershipID)
}

// EnsureClass şablonu oluşturmayı dener; uzak servis "zaten var" (HTTP 409)
// dönerse mevcut şablonu getirip onu döndürür. Her üretim çağrısında güvenle
// çağrılabilir; mükerrer şablon veya hata üretmez.
func (c *Client) EnsureClass(ctx context.Context, class *Class) (*Class, error) {
	var created Class
	status, err := c.do(ctx, http.MethodPost, "/loyaltyClass", class, &created)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusConflict:
		// Şablon zaten var: hata değil, normal akış. Mevcut olanı getir.
		var existing Class
		getStatus, getErr := c.do(ctx, http.MethodGet, "/loyaltyClass/"+class.ID, nil, &existing)
		if getErr != nil {
			return nil, getErr
		}
		if getStatus != http.StatusOK {
			return nil, &ExternalServiceError{Op: "şablon getirme", Status: getStatus}
		}
		return &existing, nil
	case status >= 200 && status < 300:
		return &created, nil
	default:
		return nil, &ExternalServiceError{Op: "şablon oluşturma", Status: status}
	}
}

// SaveObject üyeye ait kart nesnesini oluşturur ya da geçerlilik aralığını
// günceller. Nesne zaten varsa yeni bir tane yaratılmaz; yalnızca geçerlilik
// alanları PATCH edilir.
func (c *Client) SaveObject(ctx context.Context, obj *Object) (*Object, error) {
	var existing Object
	status, err := c.do(ctx, http.MethodGet, "/loyaltyObject/"+obj.ID, nil, &existing)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusNotFound:
		var created Object
		createStatus, createErr := c.do(ctx, http.MethodPost, "/loyaltyObject", obj, &created)
		if createErr != nil {
			return nil, createErr
		}
		if createStatus == http.StatusConflict {
			// Eşzamanlı üretim: başka bir çağrı nesneyi bizden önce yarattı.
			return c.fetchObject(ctx, obj.ID)
		}
		if createStatus < 200 || createStatus >= 300 {
			return nil, &ExternalServiceError{Op: "nesne oluşturma", Status: createStatus}
		}
		return &created, nil

	case http.StatusOK:
		patch := map[string]interface{}{"validTimeInterval": obj.ValidTimeInterval}
		var updated Object
		patchStatus, patchErr := c.do(ctx, http.MethodPatch, "/loyaltyObject/"+obj.ID, patch, &updated)
		if patchErr != nil {
			return nil, patchErr
		}
		if patchStatus < 200 || patchStatus >= 300 {
			return nil, &ExternalServiceError{Op: "nesne güncelleme", Status: patchStatus}
		}
		return &updated, nil

	default:
		return nil, &ExternalServiceError{Op: "nesne sorgulama", Status: status}
	}
}

func (c *Client) fetchObject(ctx context.Context, id string) (*Object, error) {
	var obj Object
	status, err := c.do(ctx, http.MethodGet, "/loyaltyObject/"+id, nil, &obj)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ExternalServiceError{Op: "nesne getirme", Status: status}
	}
	return &obj, nil
}

// do isteği çalıştırır ve 2xx/beklenen hata durum kodunu döndürür. Ağ
// seviyesindeki hatalar (zaman aşımı dahil) ExternalServiceError'a çevrilir.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, &ExternalServiceError{Op: "istek gövdesi", Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, &ExternalServiceError{Op: "istek oluşturma", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &ExternalServiceError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return resp.StatusCode, &ExternalServiceError{Op: "cevap çözümleme", Err: err}
		}
	}
	return resp.StatusCode, nil
}
