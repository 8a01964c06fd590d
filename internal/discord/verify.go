package discord

import (
	"crypto/ed25519"
	"encoding/hex"
)

// VerifyInteraction checks the ed25519 signature Discord attaches to
// interaction webhooks. The signed message is the timestamp header
// concatenated with the raw request body.
func VerifyInteraction(publicKeyHex, timestamp string, body []byte, signatureHex string) bool {
	publicKey, err := hex.DecodeString(publicKeyHex)

	if err != nil || len(publicKey) != ed25519.PublicKeySize {
		return false
	}

	signature, err := hex.DecodeString(signatureHex)

	if err != nil || len(signature) != ed25519.SignatureSize {
		return false
	}

	message := append([]byte(timestamp), body...)

	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}
