package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Persisted hashes depend on these values; changing any of them invalidates every stored password.
const (
	Iterations = 120000
	KeyLength  = 32
	SaltLength = 16
)

type Hasher interface {
	Hash(password string) (hashB64, saltB64 string, err error)
	Verify(password, saltB64, hashB64 string) bool
}

type pbkdf2Hasher struct{}

func NewHasher() Hasher {
	return pbkdf2Hasher{}
}

func (pbkdf2Hasher) Hash(password string) (string, string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", "", err
	}
	buf := []byte(password)
	defer zero(buf)
	return Encode(Derive(buf, salt)), Encode(salt), nil
}

func (pbkdf2Hasher) Verify(password, saltB64, hashB64 string) bool {
	return Verify([]byte(password), saltB64, hashB64)
}

func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

func Derive(password, salt []byte) []byte {
	return deriveKey(password, salt, Iterations)
}

func deriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeyLength, sha256.New)
}

// Verify zeroes password before returning.
func Verify(password []byte, saltB64, hashB64 string) bool {
	defer zero(password)

	salt, err := Decode(saltB64)
	if err != nil {
		return false
	}
	expected, err := Decode(hashB64)
	if err != nil || len(expected) != KeyLength {
		return false
	}
	return subtle.ConstantTimeCompare(Derive(password, salt), expected) == 1
}

func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
