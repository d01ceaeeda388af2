package passkit

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"go.mozilla.org/pkcs7"
)

var errEmptyFileSet = errors.New("imzalanacak dosya kümesi boş")

// Signer sistem genelinde tek olan imzalama kimliğini tutar: pass imza
// sertifikası, özel anahtarı ve ara sertifika zinciri. Başlangıçta bir kez
// yüklenir ve salt okunur paylaşılır; organizasyon başına anahtar yoktur.
type Signer struct {
	cert  *x509.Certificate
	key   *rsa.PrivateKey
	chain []*x509.Certificate
}

// LoadSigner PEM dosyalarından imzalama kimliğini yükler. Herhangi bir dosya
// okunamıyor veya parse edilemiyorsa SigningError döner; kısmi yüklenmiş bir
// Signer asla dönmez.
func LoadSigner(certPath, keyPath, chainPath string) (*Signer, error) {
	cert, err := loadCertificate(certPath)
	if err != nil {
		return nil, &SigningError{Op: "sertifika yükleme", Err: err}
	}

	key, err := loadPrivateKey(keyPath)
	if err != nil {
		return nil, &SigningError{Op: "anahtar yükleme", Err: err}
	}

	var chain []*x509.Certificate
	if chainPath != "" {
		intermediate, err := loadCertificate(chainPath)
		if err != nil {
			return nil, &SigningError{Op: "ara sertifika yükleme", Err: err}
		}
		chain = append(chain, intermediate)
	}

	return &Signer{cert: cert, key: key, chain: chain}, nil
}

// NewSigner hazır parse edilmiş kimlikle Signer oluşturur (testler ve
// alternatif yükleme yolları için).
func NewSigner(cert *x509.Certificate, key *rsa.PrivateKey, chain []*x509.Certificate) *Signer {
	return &Signer{cert: cert, key: key, chain: chain}
}

// Sign manifest byte'ları üzerinde ayrık (detached) PKCS#7 imzası üretir.
// İmza, manifest'in kendisini içermez; doğrulama bilinen sertifika zinciriyle
// manifest byte'larına karşı yapılır.
func (s *Signer) Sign(manifest []byte) ([]byte, error) {
	if len(manifest) == 0 {
		return nil, &SigningError{Op: "imza", Err: errEmptyFileSet}
	}
	if s == nil || s.cert == nil || s.key == nil {
		return nil, &SigningError{Op: "imza", Err: errors.New("imzalama kimliği yüklenmemiş")}
	}

	signed, err := pkcs7.NewSignedData(manifest)
	if err != nil {
		return nil, &SigningError{Op: "imza", Err: err}
	}
	signed.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)

	if err := signed.AddSignerChain(s.cert, s.key, s.chain, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, &SigningError{Op: "imza", Err: err}
	}
	signed.Detach()

	signature, err := signed.Finish()
	if err != nil {
		return nil, &SigningError{Op: "imza", Err: err}
	}
	return signature, nil
}

// Certificate imza sertifikasını döndürür (doğrulama testleri için).
func (s *Signer) Certificate() *x509.Certificate { return s.cert }

func loadCertificate(path string) (*x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: PEM bloğu bulunamadı", path)
	}
	return x509.ParseCertificate(block.Bytes)
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: PEM bloğu bulunamadı", path)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%s: RSA olmayan anahtar tipi", path)
	}
	return key, nil
}
