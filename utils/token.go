package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// VerificationToken (organization_id, membership_id) çiftinden deterministik bir
// doğrulama token'ı türetir. Aynı girdiler her zaman aynı token'ı üretir; kart
// güncellemelerinde token yeniden üretilmediği için dağıtılmış doğrulama
// linkleri geçerli kalır. Token'ın kendisi opak bir değerdir, içinden üyelik
// bilgisi çıkarılamaz.
func VerificationToken(secret string, organizationID, membershipID uint) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "org:%d|membership:%d", organizationID, membershipID)
	return hex.EncodeToString(mac.Sum(nil))
}
