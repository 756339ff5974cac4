// Package crypt encrypts sensitive columns at the persistence boundary.
//
// Ciphertext is base64url(nonce || sealed) produced by XChaCha20-Poly1305,
// with the key derived from APP_KEY via SHA-256.
package crypt

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql/driver"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrNoKey   = errors.New("crypt: key not configured")
	ErrDecrypt = errors.New("crypt: decryption failed")
)

var (
	keyMu sync.RWMutex
	key   []byte
)

// SetKey derives the encryption key from secret.
func SetKey(secret string) {
	keyMu.Lock()
	defer keyMu.Unlock()
	if secret == "" {
		key = nil
		return
	}
	h := sha256.Sum256([]byte(secret))
	key = h[:]
}

func currentKey() ([]byte, error) {
	keyMu.RLock()
	defer keyMu.RUnlock()
	if key == nil {
		return nil, ErrNoKey
	}
	return key, nil
}

// EncryptBytes seals data and returns a base64url string.
func EncryptBytes(data []byte) (string, error) {
	k, err := currentKey()
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(k)
	if err != nil {
		return "", fmt.Errorf("crypt: new aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// DecryptBytes opens a string produced by EncryptBytes.
func DecryptBytes(encoded string) ([]byte, error) {
	k, err := currentKey()
	if err != nil {
		return nil, err
	}
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecrypt
	}
	aead, err := chacha20poly1305.NewX(k)
	if err != nil {
		return nil, fmt.Errorf("crypt: new aead: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// EncryptedJSON is a JSON object stored encrypted in a text column.
// Values that cannot be decrypted read back as an empty object.
type EncryptedJSON map[string]interface{}

// GormDataType keeps the column a plain text type on every dialect.
func (EncryptedJSON) GormDataType() string {
	return "text"
}

func (e EncryptedJSON) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]interface{}(e))
	if err != nil {
		return nil, fmt.Errorf("crypt: marshal: %w", err)
	}
	return EncryptBytes(raw)
}

func (e *EncryptedJSON) Scan(src interface{}) error {
	var encoded string
	switch v := src.(type) {
	case nil:
		*e = nil
		return nil
	case string:
		encoded = v
	case []byte:
		encoded = string(v)
	default:
		return fmt.Errorf("crypt: cannot scan %T into EncryptedJSON", src)
	}

	out := EncryptedJSON{}
	plain, err := DecryptBytes(encoded)
	if err != nil {
		*e = out
		return nil
	}
	if err := json.Unmarshal(plain, &out); err != nil {
		*e = EncryptedJSON{}
		return nil
	}
	*e = out
	return nil
}
