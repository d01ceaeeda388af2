package passkit

import "encoding/json"

// Pass pass.json bildirim belgesinin tipli modelidir. Organizasyon marka
// verisi string şablonlama ile değil, özetlemeden ÖNCE bu struct doldurularak
// işlenir; bozuk belge hataları imza aşamasına sarkmaz.
type Pass struct {
	FormatVersion      int    `json:"formatVersion"`
	PassTypeIdentifier string `json:"passTypeIdentifier"`
	SerialNumber       string `json:"serialNumber"`
	TeamIdentifier     string `json:"teamIdentifier"`
	OrganizationName   string `json:"organizationName"`
	Description        string `json:"description"`

	LogoText        string `json:"logoText,omitempty"`
	ForegroundColor string `json:"foregroundColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	LabelColor      string `json:"labelColor,omitempty"`

	// ExpirationDate W3C tarih formatında (RFC 3339), üyeliğin end_date'i.
	ExpirationDate string `json:"expirationDate,omitempty"`

	Barcodes []Barcode      `json:"barcodes,omitempty"`
	Generic  *PassStructure `json:"generic,omitempty"`
}

// Barcode kartın taranabilir alanını tanımlar. Message alanı doğrulama
// token'ını gömen URL'yi, AltText token'ın kendisini taşır.
type Barcode struct {
	Format          string `json:"format"`
	Message         string `json:"message"`
	MessageEncoding string `json:"messageEncoding"`
	AltText         string `json:"altText,omitempty"`
}

// PassStructure kart yüzündeki alan gruplarını tanımlar.
type PassStructure struct {
	PrimaryFields   []PassField `json:"primaryFields,omitempty"`
	SecondaryFields []PassField `json:"secondaryFields,omitempty"`
	AuxiliaryFields []PassField `json:"auxiliaryFields,omitempty"`
	BackFields      []PassField `json:"backFields,omitempty"`
}

// PassField tek bir görünür alan.
type PassField struct {
	Key       string `json:"key"`
	Label     string `json:"label,omitempty"`
	Value     string `json:"value"`
	DateStyle string `json:"dateStyle,omitempty"`
}

const (
	BarcodeFormatQR      = "PKBarcodeFormatQR"
	BarcodeEncodingLatin = "iso-8859-1"
)

// Encode pass.json byte'larını üretir.
func (p *Pass) Encode() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
