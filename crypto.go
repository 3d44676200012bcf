package interdependence

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// PersonalDigest hashes a message the way browser wallets do for
// personal_sign, so signatures produced here and signatures produced by a
// wallet over the same declaration text are interchangeable.
func PersonalDigest(message []byte) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// SignPersonal signs message with the given secp256k1 private key (hex, with
// or without 0x prefix) and returns a 0x-prefixed 65-byte signature with the
// recovery id in wallet convention (V = 27 or 28).
func SignPersonal(message []byte, privateKeyHex string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}

	sig, err := crypto.Sign(PersonalDigest(message), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[64] += 27

	return "0x" + hex.EncodeToString(sig), nil
}

// RecoverSigner returns the address that produced sigHex over message.
// It accepts both wallet-convention (27/28) and raw (0/1) recovery ids.
func RecoverSigner(message []byte, sigHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("invalid signature length: %d", len(sig))
	}
	if sig[64] >= 27 {
		sig = append(append([]byte{}, sig[:64]...), sig[64]-27)
	}

	pub, err := crypto.SigToPub(PersonalDigest(message), sig)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// AddrForKey derives the wallet address of a hex-encoded private key.
func AddrForKey(privateKeyHex string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// SameAddress compares two wallet addresses ignoring checksum casing.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
