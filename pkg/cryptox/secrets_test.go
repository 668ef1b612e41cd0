package cryptox

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ResetKeyForTesting()
	t.Setenv("SHOP_MASTER_KEY", "test-master-key-material")

	plaintext := []byte(`{"sort_code":"601613","account_number":"31926819"}`)

	encrypted, err := Encrypt(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, encrypted)

	decrypted, err := Decrypt(encrypted)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestEncryptProducesUniqueNonces(t *testing.T) {
	ResetKeyForTesting()
	t.Setenv("SHOP_MASTER_KEY", "test-master-key-material")

	a, err := Encrypt([]byte("31926819"))
	require.NoError(t, err)
	b, err := Encrypt([]byte("31926819"))
	require.NoError(t, err)

	require.NotEqual(t, a, b, "same plaintext must not produce identical ciphertext")
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	ResetKeyForTesting()
	t.Setenv("SHOP_MASTER_KEY", "test-master-key-material")

	encrypted, err := Encrypt([]byte("31926819"))
	require.NoError(t, err)

	encrypted[len(encrypted)-1] ^= 0xff
	_, err = Decrypt(encrypted)
	require.Error(t, err)
}

func TestDecryptRejectsShortInput(t *testing.T) {
	ResetKeyForTesting()
	t.Setenv("SHOP_MASTER_KEY", "test-master-key-material")

	_, err := Decrypt([]byte{0x01, 0x02})
	require.Error(t, err)
}

func TestMasterKeyFromFile(t *testing.T) {
	ResetKeyForTesting()
	t.Cleanup(func() {
		SetMasterKeyPath("")
		ResetKeyForTesting()
	})

	keyFile := t.TempDir() + "/master.key"
	require.NoError(t, os.WriteFile(keyFile, []byte("file-key-material"), 0o600))
	SetMasterKeyPath(keyFile)

	encrypted, err := Encrypt([]byte("601613"))
	require.NoError(t, err)

	decrypted, err := Decrypt(encrypted)
	require.NoError(t, err)
	require.Equal(t, []byte("601613"), decrypted)
}
