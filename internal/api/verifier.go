package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Billing-Signature"

// Verifier authenticates an inbound webhook body against its signature
// header. It is a thin boundary collaborator; the pipeline itself trusts
// whatever passes it.
type Verifier interface {
	Verify(body []byte, signature string) bool
}

// HMACVerifier verifies hex-encoded HMAC-SHA256 signatures.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier for the given signing secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify implements Verifier using a constant-time comparison.
func (v *HMACVerifier) Verify(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// NoopVerifier accepts everything. Development only.
type NoopVerifier struct{}

// Verify implements Verifier.
func (NoopVerifier) Verify([]byte, string) bool { return true }
