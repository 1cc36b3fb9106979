package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashHexLen is the length of a hex-encoded SHA-256 digest.
const HashHexLen = 64

// HashBytes computes the SHA-256 digest of data as lowercase hex.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashString computes the SHA-256 digest of s as lowercase hex.
func HashString(s string) string {
	return HashBytes([]byte(s))
}

// EmptyHash is the digest of the empty string, used as the merkle root of a
// block with no transactions (the genesis block).
func EmptyHash() string {
	return HashBytes(nil)
}

// IsHexHash reports whether s is a well-formed hex-encoded SHA-256 digest.
func IsHexHash(s string) bool {
	if len(s) != HashHexLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// MeetsDifficulty reports whether hash carries at least difficulty leading
// zero hex characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if len(hash) < difficulty {
		return false
	}
	for i := 0; i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}
	return true
}
