package api

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	secureCookieVersion = "v1"
	secureCookieSalt    = "clarity.secure-cookie"
)

var errInvalidSecureCookieValue = errors.New("invalid secure cookie value")

// secureCookieCodec seals cookie values with XChaCha20-Poly1305. Every
// cookie name gets its own HKDF-derived key, so a value sealed for one
// cookie never opens as another.
type secureCookieCodec struct {
	secret []byte

	mu      sync.Mutex
	ciphers map[string]cookieCipher
}

type cookieCipher interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

func newSecureCookieCodec(secretKey []byte) (*secureCookieCodec, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("secure cookie secret key is required")
	}
	return &secureCookieCodec{
		secret:  append([]byte(nil), secretKey...),
		ciphers: make(map[string]cookieCipher),
	}, nil
}

func (codec *secureCookieCodec) cipherFor(purpose string) (cookieCipher, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, errors.New("secure cookie purpose is required")
	}

	codec.mu.Lock()
	defer codec.mu.Unlock()
	if existing, ok := codec.ciphers[purpose]; ok {
		return existing, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, codec.secret, []byte(secureCookieSalt), []byte(purpose))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive %s cookie key: %w", purpose, err)
	}
	created, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init %s cookie cipher: %w", purpose, err)
	}
	codec.ciphers[purpose] = created
	return created, nil
}

// seal returns "v1.<base64url(nonce || ciphertext)>".
func (codec *secureCookieCodec) seal(purpose string, plaintext []byte) (string, error) {
	aead, err := codec.cipherFor(purpose)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+chacha20poly1305.Overhead)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate cookie nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plaintext, []byte(secureCookieVersion))
	return secureCookieVersion + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (codec *secureCookieCodec) open(purpose string, rawValue string) ([]byte, error) {
	aead, err := codec.cipherFor(purpose)
	if err != nil {
		return nil, err
	}

	encoded, ok := strings.CutPrefix(strings.TrimSpace(rawValue), secureCookieVersion+".")
	if !ok {
		return nil, errInvalidSecureCookieValue
	}
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(sealed) < aead.NonceSize()+chacha20poly1305.Overhead {
		return nil, errInvalidSecureCookieValue
	}

	plaintext, err := aead.Open(nil, sealed[:aead.NonceSize()], sealed[aead.NonceSize():], []byte(secureCookieVersion))
	if err != nil {
		return nil, errInvalidSecureCookieValue
	}
	return plaintext, nil
}
