// Package tally parses and verifies webhook deliveries from the Tally
// form service and maps their field-keyed payloads into typed records.
package tally

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader is the header Tally puts its payload signature in.
const SignatureHeader = "Tally-Signature"

// VerifySignature checks the signature header against the HMAC-SHA256
// of the raw request body under the shared signing secret. Tally
// encodes the digest with standard base64.
func VerifySignature(body []byte, secret string, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
