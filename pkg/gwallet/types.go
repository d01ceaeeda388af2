package gwallet

// Class organizasyon başına bir kez oluşturulan, o organizasyonun tüm üye
// kartlarının referans verdiği uzak şablondur.
type Class struct {
	ID                 string `json:"id"`
	IssuerName         string `json:"issuerName"`
	ProgramName        string `json:"programName"`
	HexBackgroundColor string `json:"hexBackgroundColor,omitempty"`
	LogoURL            string `json:"logoUrl,omitempty"`
	ReviewStatus       string `json:"reviewStatus,omitempty"`
}

// Object üye başına bir kez oluşturulan, şablona referans veren kart nesnesidir.
type Object struct {
	ID         string `json:"id"`
	ClassID    string `json:"classId"`
	State      string `json:"state"`
	HolderName string `json:"accountName"`
	Kind       string `json:"accountId,omitempty"`

	ValidTimeInterval *TimeInterval `json:"validTimeInterval,omitempty"`
	Barcode           *Barcode      `json:"barcode,omitempty"`
}

// TimeInterval kartın geçerlilik aralığı.
type TimeInterval struct {
	Start DateTime `json:"start"`
	End   DateTime `json:"end"`
}

// DateTime ISO 8601 tarih sarmalayıcısı.
type DateTime struct {
	Date string `json:"date"`
}

// Barcode doğrulama token'ını gömen taranabilir alan.
type Barcode struct {
	Type          string `json:"type"`
	Value         string `json:"value"`
	AlternateText string `json:"alternateText,omitempty"`
}

const (
	ObjectStateActive = "ACTIVE"
	BarcodeTypeQR     = "QR_CODE"
)
