package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/hkdf"
)

var (
	dataKeyOnce   sync.Once
	dataKey       []byte
	dataKeyErr    error
	masterKeyPath string = "" // Can be set via SetMasterKeyPath before first use
)

// hkdfInfo binds the derived key to its single purpose. Changing this string
// invalidates every ciphertext written under it.
const hkdfInfo = "simshop/direct-debit/v1"

// SetMasterKeyPath configures where to load the master key material from.
// This must be called before any encryption/decryption operations.
// If not set, the material is read from the SHOP_MASTER_KEY environment variable.
func SetMasterKeyPath(path string) {
	masterKeyPath = path
}

// loadKeyMaterial loads master key material from either:
// 1. File specified by masterKeyPath (if set)
// 2. SHOP_MASTER_KEY environment variable
// 3. A generated ephemeral key for development (NOT for production;
//    stored bank details do not survive a restart)
func loadKeyMaterial() ([]byte, error) {
	if masterKeyPath != "" {
		data, err := os.ReadFile(masterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		return data, nil
	}

	if envKey := os.Getenv("SHOP_MASTER_KEY"); envKey != "" {
		return []byte(envKey), nil
	}

	material := make([]byte, 32)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
	}
	return material, nil
}

// getDataKey derives and caches the 32-byte AES-256 data key from the master
// key material via HKDF-SHA256.
func getDataKey() ([]byte, error) {
	dataKeyOnce.Do(func() {
		material, err := loadKeyMaterial()
		if err != nil {
			dataKeyErr = err
			return
		}

		key := make([]byte, 32)
		kdf := hkdf.New(sha256.New, material, nil, []byte(hkdfInfo))
		if _, err := io.ReadFull(kdf, key); err != nil {
			dataKeyErr = fmt.Errorf("failed to derive data key: %w", err)
			return
		}
		dataKey = key
	})
	if dataKeyErr != nil {
		return nil, dataKeyErr
	}
	return dataKey, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with the derived data key.
// The output format is: [12-byte nonce][ciphertext][16-byte auth tag].
func Encrypt(plaintext []byte) ([]byte, error) {
	key, err := getDataKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get data key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// gcm.Seal appends the ciphertext and auth tag to the nonce
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt reverses Encrypt. Expects format: [12-byte nonce][ciphertext][tag].
func Decrypt(encrypted []byte) ([]byte, error) {
	key, err := getDataKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get data key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encrypted) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := encrypted[:nonceSize], encrypted[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// ResetKeyForTesting resets the derived key singleton. Tests only.
func ResetKeyForTesting() {
	dataKeyOnce = sync.Once{}
	dataKey = nil
	dataKeyErr = nil
}
