package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "webhook-secret"
	payload := []byte(`{"action": "published"}`)

	assert.True(t, VerifySignature(secret, payload, sign(secret, payload)))
}

func TestVerifySignatureRejects(t *testing.T) {
	secret := "webhook-secret"
	payload := []byte(`{"action": "published"}`)
	signature := sign(secret, payload)

	assert.False(t, VerifySignature("wrong-secret", payload, signature))
	assert.False(t, VerifySignature(secret, []byte(`{"action": "tampered"}`), signature))
	assert.False(t, VerifySignature(secret, payload, "sha1=deadbeef"))
	assert.False(t, VerifySignature(secret, payload, "sha256=nothex"))
	assert.False(t, VerifySignature(secret, payload, ""))
}
