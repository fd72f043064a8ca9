package domain

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Address is the base58 text form of a 32-byte ed25519 public key.
type Address string

// AddressLen is the decoded key length in bytes.
const AddressLen = 32

// NativeAsset is the sentinel asset address denoting the platform's
// native currency in emergency-withdraw calls.
const NativeAsset Address = ""

// ParseAddress decodes and validates a base58 account address.
// The decoded key must be 32 bytes and a valid point on the ed25519 curve.
func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return "", fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != AddressLen {
		return "", fmt.Errorf("address must be %d bytes, got %d", AddressLen, len(raw))
	}
	if !isOnCurve(raw) {
		return "", fmt.Errorf("address is not a valid ed25519 point")
	}
	return Address(s), nil
}

// DeriveAddress returns a deterministic valid address for a seed.
// It hashes the seed with an incrementing bump until the digest lands
// on the ed25519 curve, mirroring how program addresses are ground out.
func DeriveAddress(seed []byte) Address {
	for bump := byte(0); ; bump++ {
		data := make([]byte, 0, len(seed)+1)
		data = append(data, seed...)
		data = append(data, bump)
		hash := sha256.Sum256(data)
		if isOnCurve(hash[:]) {
			return Address(base58.Encode(hash[:]))
		}
	}
}

// Bytes returns the decoded 32-byte key.
func (a Address) Bytes() ([]byte, error) {
	raw, err := base58.Decode(string(a))
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != AddressLen {
		return nil, fmt.Errorf("address must be %d bytes, got %d", AddressLen, len(raw))
	}
	return raw, nil
}

// IsNative reports whether a is the native-asset sentinel.
func (a Address) IsNative() bool {
	return a == NativeAsset
}

func (a Address) String() string {
	return string(a)
}

func isOnCurve(point []byte) bool {
	if len(point) != AddressLen {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
