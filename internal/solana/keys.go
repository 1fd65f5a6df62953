package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidatePubkey checks that s is a base58-encoded 32-byte public key.
func ValidatePubkey(s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("decode pubkey: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("pubkey must be 32 bytes, got %d", len(raw))
	}
	return nil
}

// ValidateSignature checks that s is a base58-encoded 64-byte signature.
func ValidateSignature(s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) != 64 {
		return fmt.Errorf("signature must be 64 bytes, got %d", len(raw))
	}
	return nil
}

// IsOnCurve reports whether the pubkey lies on the ed25519 curve. Wallet
// addresses are on-curve; program-derived addresses are not.
func IsOnCurve(pubkey string) bool {
	raw, err := base58.Decode(pubkey)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
