//nolint:revive
package util

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// ParsePrivKeyHex parses a hex encoded secp256k1 private key, with or without
// the 0x prefix. go-ethereum rejects keys that are zero or not below the curve
// order, so no extra range check is needed here.
func ParsePrivKeyHex(keyHex string) (*ecdsa.PrivateKey, error) {
	keyHex = strings.TrimPrefix(strings.TrimSpace(keyHex), "0x")
	if keyHex == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return key, nil
}
