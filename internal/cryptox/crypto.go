// Package cryptox implements the signature primitive used for DID
// authentication and credential proofs: ed25519 over a SHA-256 digest of the
// message, with hex-encoded keys and signatures on the wire. Hashing first
// keeps the signed payload at a fixed size regardless of message length.
package cryptox

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// NormalizeHexKey strips an optional "0x" prefix from a hex-encoded key.
func NormalizeHexKey(key string) string {
	return strings.TrimPrefix(key, "0x")
}

// VerifyHex reports whether signatureHex is a valid ed25519 signature of
// SHA256(message) under publicKeyHex. Malformed hex, a key of the wrong
// length, or a bad signature all yield false; verification never errors.
func VerifyHex(signatureHex string, message string, publicKeyHex string) bool {
	sig, err := hex.DecodeString(NormalizeHexKey(signatureHex))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	pub, err := hex.DecodeString(NormalizeHexKey(publicKeyHex))
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}

	digest := sha256.Sum256([]byte(message))
	return ed25519.Verify(ed25519.PublicKey(pub), digest[:], sig)
}

// SignHex signs SHA256(message) with the ed25519 key derived from the
// hex-encoded 32-byte seed and returns the signature as hex. Only service
// keys ever reach this function; user keys never leave the client.
func SignHex(message string, secretSeedHex string) (string, error) {
	seed, err := hex.DecodeString(NormalizeHexKey(secretSeedHex))
	if err != nil {
		return "", fmt.Errorf("decoding secret key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return "", fmt.Errorf("secret key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	digest := sha256.Sum256([]byte(message))
	return hex.EncodeToString(ed25519.Sign(priv, digest[:])), nil
}

// PublicKeyHex derives the hex-encoded public key from a hex-encoded seed.
func PublicKeyHex(secretSeedHex string) (string, error) {
	seed, err := hex.DecodeString(NormalizeHexKey(secretSeedHex))
	if err != nil {
		return "", fmt.Errorf("decoding secret key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return "", fmt.Errorf("secret key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return hex.EncodeToString(priv.Public().(ed25519.PublicKey)), nil
}
