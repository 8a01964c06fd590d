package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks a webhook body against the X-Hub-Signature-256
// header value ("sha256=<hex>") using the shared webhook secret.
func VerifySignature(secret string, payload []byte, signature string) bool {
	hexSig, ok := strings.CutPrefix(signature, "sha256=")

	if !ok {
		return false
	}

	expected, err := hex.DecodeString(hexSig)

	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	return hmac.Equal(mac.Sum(nil), expected)
}
