package services

// Servis katmanının yerel hata türleri. Paket dışındaki yapısal hatalarla
// (passkit.SigningError, passkit.ArchiveError, gwallet.ExternalServiceError)
// birlikte beş tür ayırt edilebilir; handler katmanı bunları HTTP durum
// kodlarına çevirir. Hiçbir hata genel bir hataya indirgenmez.

// ValidationError girdi şekli bozuk, kart tipi desteklenmiyor veya üyelik
// tarihleri tutarsız demektir. Yerel bir hatadır, yeniden denenmez.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// NotFoundError üyelik veya kart kaydının bulunamadığı durumdur.
type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

const (
	ErrUnsupportedCardType    ValidationError = "desteklenmeyen kart tipi"
	ErrInvalidMembershipDates ValidationError = "üyelik tarih aralığı tutarsız"
	ErrInvalidInput           ValidationError = "geçersiz girdi verisi"
	ErrInvalidStatusChange    ValidationError = "geçersiz durum geçişi"

	ErrMembershipNotFound   NotFoundError = "üyelik bulunamadı"
	ErrOrganizationNotFound NotFoundError = "organizasyon bulunamadı"
	ErrCardNotFound         NotFoundError = "kart bulunamadı"
	ErrPassNotFound         NotFoundError = "kart paketi bulunamadı"
)
