package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motherduck-destination/internal/errs"
)

func encryptFixture(t *testing.T, key, plaintext []byte) []byte {
	t.Helper()

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	iv := make([]byte, aes.BlockSize)
	_, err = io.ReadFull(rand.Reader, iv)
	require.NoError(t, err)

	padded, err := pkcs7Pad(plaintext, aes.BlockSize)
	require.NoError(t, err)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return append(append([]byte{}, iv...), ciphertext...)
}

func pkcs7Pad(buf []byte, blockSize int) ([]byte, error) {
	padLen := blockSize - len(buf)%blockSize
	padded := make([]byte, len(buf)+padLen)
	copy(padded, buf)
	for i := len(buf); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded, nil
}

func TestDecryptStream_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)

	plaintext := make([]byte, 10*1024*1024)
	_, err := io.ReadFull(rand.Reader, plaintext)
	require.NoError(t, err)

	encrypted := encryptFixture(t, key, plaintext)

	var out bytes.Buffer
	err = DecryptStream(bytes.NewReader(encrypted), "fixture.csv.enc", &out, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out.Bytes())
}

func TestDecryptStream_SmallerThanOneBuffer(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, KeySize)
	plaintext := []byte("a small plaintext payload")
	encrypted := encryptFixture(t, key, plaintext)

	var out bytes.Buffer
	require.NoError(t, DecryptStream(bytes.NewReader(encrypted), "small.enc", &out, key))
	assert.Equal(t, plaintext, out.Bytes())
}

func TestDecryptStream_WrongKeyLength(t *testing.T) {
	var out bytes.Buffer
	err := DecryptStream(bytes.NewReader(nil), "bad-key.enc", &out, []byte("too-short"))
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Decryption key must be 32 bytes long for AES-256-CBC")
}

func TestDecryptStream_IVTooShortReportsMalformed(t *testing.T) {
	key := bytes.Repeat([]byte{0x07}, KeySize)

	var out bytes.Buffer
	err := DecryptStream(bytes.NewReader([]byte("short")), "stub.enc", &out, key)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Unexpected end of file while reading IV in stub.enc")
}

func TestDecryptStream_SeedGarbageDataReportsFinalizationPhase(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, KeySize)

	var out bytes.Buffer
	err := DecryptStream(bytes.NewReader([]byte("1111111111111111_garbage_data")), "stub.enc", &out, key)
	require.Error(t, err)
	assert.Equal(t, errs.KindCrypto, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Error during decrypt finalization")
}

func TestDecryptStream_MalformedCiphertextReportsFinalizationPhase(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, KeySize)

	// A valid IV followed by ciphertext that decrypts but carries an
	// invalid PKCS#7 padding byte in its final block.
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	iv := make([]byte, aes.BlockSize)
	garbageBlock := bytes.Repeat([]byte{0xFF}, aes.BlockSize)
	ciphertext := make([]byte, aes.BlockSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, garbageBlock)

	malformed := append(append([]byte{}, iv...), ciphertext...)

	var out bytes.Buffer
	err = DecryptStream(bytes.NewReader(malformed), "malformed.enc", &out, key)
	require.Error(t, err)
	assert.Equal(t, errs.KindCrypto, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Error during decrypt finalization")
}
