package gwallet

import "fmt"

// ExternalServiceError uzak cüzdan dizininin ulaşılamaz olması veya beklenmeyen
// bir cevap dönmesi durumudur. Çağrı için ölümcüldür; yeniden deneme kararı
// çağırana bırakılır (create işlemleri körlemesine tekrar edilmez, bunun yerine
// "zaten var" cevabı normal akışa çevrilir).
type ExternalServiceError struct {
	Op     string
	Status int
	Err    error
}

func (e *ExternalServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("uzak cüzdan servisi hatası (%s): HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("uzak cüzdan servisi hatası (%s): %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
