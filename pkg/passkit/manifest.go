package passkit

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
)

// BuildManifest arşive girecek her dosyanın SHA-1 özetini içeren manifest.json
// içeriğini üretir. Manifest, arşivlenecek dosyaların tamamını ve yalnızca
// onları listelemelidir; imza bu byte'ların üzerinden atılır.
// Paket formatı özet algoritması olarak SHA-1 kullanır.
func BuildManifest(files map[string][]byte) ([]byte, error) {
	if len(files) == 0 {
		return nil, &SigningError{Op: "manifest", Err: errEmptyFileSet}
	}
	digests := make(map[string]string, len(files))
	for name, data := range files {
		sum := sha1.Sum(data)
		digests[name] = hex.EncodeToString(sum[:])
	}
	// json.Marshal map anahtarlarını sıralar; manifest içerik olarak deterministiktir.
	return json.Marshal(digests)
}
