package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// DefaultSignatureHeader carries the hex HMAC-SHA512 of the raw request body.
const DefaultSignatureHeader = "x-paystack-signature"

// Verifier authenticates webhook deliveries with the account secret key.
type Verifier struct {
	secret []byte
}

func NewVerifier(secretKey string) *Verifier {
	return &Verifier{secret: []byte(secretKey)}
}

// Configured reports whether a secret key is available.
func (v *Verifier) Configured() bool {
	return v != nil && len(v.secret) > 0
}

// Verify reports whether signature is the HMAC-SHA512 of body under the secret.
// It never panics; a missing secret or signature is simply invalid.
func (v *Verifier) Verify(body []byte, signature string) bool {
	if !v.Configured() || signature == "" {
		return false
	}
	expected := Sign(v.secret, body)
	if len(signature) != len(expected) {
		return false
	}
	return hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected))
}

// Sign returns the lowercase hex HMAC-SHA512 of body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
