package crypto

import (
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	keyPath := filepath.Join(t.TempDir(), "master.key")
	return NewService(NewFileKeyStore(keyPath), zap.NewNop())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"simple", "DE89370400440532013000"},
		{"unicode", "Straße 42, München"},
		{"long", string(make([]byte, 4096))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := svc.Encrypt(tt.plaintext)
			require.NoError(t, err)
			require.NotEmpty(t, blob)

			decrypted, err := svc.Decrypt(blob)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestEncryptEmptyStringIsAbsentSentinel(t *testing.T) {
	svc := newTestService(t)

	blob, err := svc.Encrypt("")
	require.NoError(t, err)
	assert.Nil(t, blob)

	decrypted, err := svc.Decrypt(nil)
	require.NoError(t, err)
	assert.Equal(t, "", decrypted)
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := svc.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptTamperedBlob(t *testing.T) {
	svc := newTestService(t)

	blob, err := svc.Encrypt("sensitive")
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	_, err = svc.Decrypt(blob)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestDecryptTruncatedBlob(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Decrypt([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecryptWithWrongKey(t *testing.T) {
	first := newTestService(t)
	second := newTestService(t)

	blob, err := first.Encrypt("secret")
	require.NoError(t, err)

	_, err = second.Decrypt(blob)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestExportImportRoundTrip(t *testing.T) {
	first := newTestService(t)

	blob, err := first.Encrypt("portable secret")
	require.NoError(t, err)

	exported, err := first.ExportKey()
	require.NoError(t, err)

	second := newTestService(t)
	require.NoError(t, second.ImportKey(exported))

	decrypted, err := second.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "portable secret", decrypted)
}

func TestImportKeyValidation(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"not base64", "not-valid-base64!!!"},
		{"too short", base64.StdEncoding.EncodeToString(make([]byte, 16))},
		{"too long", base64.StdEncoding.EncodeToString(make([]byte, 64))},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			err := svc.ImportKey(tt.encoded)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestImportKeyDoesNotMutateOnFailure(t *testing.T) {
	svc := newTestService(t)

	blob, err := svc.Encrypt("before")
	require.NoError(t, err)

	require.Error(t, svc.ImportKey(base64.StdEncoding.EncodeToString(make([]byte, 16))))

	// The old key must still decrypt
	decrypted, err := svc.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "before", decrypted)
}

func TestDeleteKeyMakesDataUnrecoverable(t *testing.T) {
	svc := newTestService(t)

	blob, err := svc.Encrypt("gone forever")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteKey())
	assert.False(t, svc.HasKey())

	// A fresh key gets generated lazily; the old blob no longer opens
	_, err = svc.Decrypt(blob)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestHasKey(t *testing.T) {
	svc := newTestService(t)
	assert.False(t, svc.HasKey())

	_, err := svc.Encrypt("creates the key")
	require.NoError(t, err)
	assert.True(t, svc.HasKey())
}
