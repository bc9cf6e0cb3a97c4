// Package crypto implements the streaming AES-256-CBC decryption used to
// unwrap encrypted CSV batches before they reach the warehouse. It mirrors
// the two-phase update/finalization shape of the original OpenSSL EVP
// decrypt calls, expressed as a buffered io.Reader/io.Writer loop instead
// of a single in-memory buffer.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
	"os"

	"motherduck-destination/internal/errs"
)

// KeySize is the required AES-256 key length in bytes.
const KeySize = 32

// readBufferBlocks sets the buffered read chunk to block_size * 1024,
// matching spec.md §4.1's buffer sizing.
const readBufferBlocks = 1024

// DecryptStream decrypts input (a 16-byte IV followed by AES-256-CBC
// ciphertext, PKCS#7 padded) and writes the plaintext to output.
// inputName is used only to annotate error messages.
func DecryptStream(input io.Reader, inputName string, output io.Writer, key []byte) error {
	if len(key) != KeySize {
		return errs.InvalidArgument("Decryption key must be 32 bytes long for AES-256-CBC")
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(input, iv); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errs.Malformed("Unexpected end of file while reading IV in %s", inputName)
		}
		return errs.IO("reading IV from %s: %v", inputName, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return errs.Internal("initializing AES cipher for %s: %v", inputName, err)
	}
	mode := cipher.NewCBCDecrypter(block, iv)

	buf := make([]byte, aes.BlockSize*readBufferBlocks)

	// pending holds the most recently decrypted chunk. It is never
	// written immediately, since it might be the final chunk and still
	// carry PKCS#7 padding that has to be stripped before it reaches
	// output.
	var pending []byte

	for {
		n, readErr := io.ReadFull(input, buf)
		isFinalRead := readErr == io.EOF || readErr == io.ErrUnexpectedEOF

		if n > 0 {
			if n%aes.BlockSize != 0 {
				if isFinalRead {
					return errs.Crypto("finalization", fmt.Errorf("ciphertext length for %s is not a multiple of the block size", inputName))
				}
				return errs.Crypto("update", fmt.Errorf("ciphertext length for %s is not a multiple of the block size", inputName))
			}

			decrypted := make([]byte, n)
			mode.CryptBlocks(decrypted, buf[:n])

			if pending != nil {
				if _, err := output.Write(pending); err != nil {
					return errs.IO("writing decrypted output for %s: %v", inputName, err)
				}
			}
			pending = decrypted
		}

		if isFinalRead {
			break
		}
		if readErr != nil {
			return errs.Crypto("update", fmt.Errorf("reading ciphertext from %s: %w", inputName, readErr))
		}
	}

	if pending == nil {
		return errs.Crypto("finalization", fmt.Errorf("%s contains no ciphertext blocks", inputName))
	}

	unpadded, err := pkcs7Unpad(pending, aes.BlockSize)
	if err != nil {
		return errs.Crypto("finalization", fmt.Errorf("%s: %w", inputName, err))
	}

	if _, err := output.Write(unpadded); err != nil {
		return errs.IO("writing decrypted output for %s: %v", inputName, err)
	}

	return nil
}

// DecryptFile opens path and decrypts it via DecryptStream, using path as
// the error-context name.
func DecryptFile(path string, output io.Writer, key []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.IO("opening %s for decryption: %v", path, err)
	}
	defer f.Close()

	return DecryptStream(f, path, output, key)
}

// pkcs7Unpad strips PKCS#7 padding from the final block(s) of buf.
func pkcs7Unpad(buf []byte, blockSize int) ([]byte, error) {
	if len(buf) == 0 || len(buf)%blockSize != 0 {
		return nil, fmt.Errorf("padded plaintext length %d is not a multiple of the block size", len(buf))
	}

	padLen := int(buf[len(buf)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(buf) {
		return nil, fmt.Errorf("invalid PKCS#7 padding length %d", padLen)
	}

	for _, b := range buf[len(buf)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("invalid PKCS#7 padding bytes")
		}
	}

	return buf[:len(buf)-padLen], nil
}
