package discord

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/cockroachdb/errors"
)

// ParsePublicKey decodes the application's hex-encoded Ed25519 key.
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode public key")
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, errors.Newf("public key is %d bytes, want %d", len(b), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(b), nil
}

// VerifySignature checks the X-Signature-Ed25519 header against timestamp+body.
func VerifySignature(key ed25519.PublicKey, signature, timestamp string, body []byte) bool {
	if len(key) != ed25519.PublicKeySize || signature == "" || timestamp == "" {
		return false
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)
	return ed25519.Verify(key, msg, sig)
}
