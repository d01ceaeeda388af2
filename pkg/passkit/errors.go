package passkit

import "fmt"

// SigningError imza altyapısının kullanılamaz olduğunu gösterir (okunamayan
// anahtar/sertifika, boş dosya kümesi). Geçici bir hata değil, konfigürasyon
// sorunudur; üretim operatörünün ilgilenmesi gerekir.
type SigningError struct {
	Op  string
	Err error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("imzalama hatası (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("imzalama hatası (%s)", e.Op)
}

func (e *SigningError) Unwrap() error { return e.Err }

// ArchiveError paket arşivi oluşturulurken yaşanan G/Ç hatasıdır.
// Çağrı için ölümcüldür ancak yeniden denemek güvenlidir.
type ArchiveError struct {
	Op  string
	Err error
}

func (e *ArchiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("arşiv hatası (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("arşiv hatası (%s)", e.Op)
}

func (e *ArchiveError) Unwrap() error { return e.Err }
