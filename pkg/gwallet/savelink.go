package gwallet

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SaveLink kart nesnesini cüzdana ekleme linkini üretir. Link, nesne yükünü
// taşıyan RS256 imzalı bir JWT'yi bilinen kaydetme URL kalıbına gömer.
func (c *Client) SaveLink(obj *Object) (string, error) {
	if c.key == nil {
		return "", &ExternalServiceError{Op: "kaydetme linki", Err: fmt.Errorf("imza anahtarı yüklenmemiş")}
	}

	claims := jwt.MapClaims{
		"iss": c.signerID,
		"aud": "google",
		"typ": "savetowallet",
		"iat": time.Now().Unix(),
		"payload": map[string]interface{}{
			"loyaltyObjects": []map[string]string{
				{"id": obj.ID, "classId": obj.ClassID},
			},
		},
	}
	if len(c.origins) > 0 {
		claims["origins"] = c.origins
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", &ExternalServiceError{Op: "kaydetme linki imzalama", Err: err}
	}
	return c.saveBase + "/" + signed, nil
}
