package passkit

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	passFileName      = "pass.json"
	manifestFileName  = "manifest.json"
	signatureFileName = "signature"
)

// Builder bildirim belgesi + görselleri imzalı tek bir .pkpass arşivine paketler.
type Builder struct {
	signer *Signer
}

// NewBuilder paket üreticisini oluşturur.
func NewBuilder(signer *Signer) *Builder {
	return &Builder{signer: signer}
}

// Build pass belgesini ve görselleri manifest + ayrık imza ile birlikte zip
// arşivine paketler ve arşiv byte'larını döndürür.
//
// Arşiv üye listesi tam olarak şudur: pass.json, manifest.json, signature ve
// verilen görseller. Manifest yalnızca arşivlenen dosyaları listeler.
// Hazırlama alanı çağrıya özel uuid adlı bir geçici dizindir ve başarı/hata
// fark etmeksizin her çıkış yolunda temizlenir.
func (b *Builder) Build(pass *Pass, assets map[string][]byte) ([]byte, error) {
	passJSON, err := pass.Encode()
	if err != nil {
		return nil, &ArchiveError{Op: "pass.json encode", Err: err}
	}

	files := map[string][]byte{passFileName: passJSON}
	for name, data := range assets {
		files[name] = data
	}

	manifest, err := BuildManifest(files)
	if err != nil {
		return nil, err // SigningError
	}
	signature, err := b.signer.Sign(manifest)
	if err != nil {
		return nil, err // SigningError
	}

	// Hazırlama alanı: eşzamanlı üretimler birbirinin alanını görmez.
	workDir, err := os.MkdirTemp("", "uyekart-pass-"+uuid.NewString())
	if err != nil {
		return nil, &ArchiveError{Op: "hazırlama dizini", Err: err}
	}
	defer os.RemoveAll(workDir)

	files[manifestFileName] = manifest
	files[signatureFileName] = signature

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(workDir, name), data, 0o600); err != nil {
			return nil, &ArchiveError{Op: "hazırlama yazımı", Err: err}
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name := range files {
		data, err := os.ReadFile(filepath.Join(workDir, name))
		if err != nil {
			zw.Close()
			return nil, &ArchiveError{Op: "hazırlama okuması", Err: err}
		}
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, &ArchiveError{Op: "arşiv girdisi", Err: err}
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return nil, &ArchiveError{Op: "arşiv yazımı", Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &ArchiveError{Op: "arşiv kapatma", Err: err}
	}

	return buf.Bytes(), nil
}
