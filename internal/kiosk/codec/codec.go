// Package codec decrypts raw identity-card payloads into passenger IDs.
//
// Deployed cards carry a base64-encoded AES-CBC ciphertext of the passenger
// ID, PKCS#7 padded, with the key doubling as IV. That construction is fixed
// by the fleet's existing card stock; the codec must stay wire-compatible
// with it.
package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrBadPayload = errors.New("codec: payload is not a valid card ciphertext")
	ErrBadKey     = errors.New("codec: key must be 16, 24, or 32 bytes")
)

// Codec encrypts and decrypts card payloads with a fixed symmetric key.
// The key is rotated only through the administrative enrollment tool.
type Codec struct {
	key []byte
}

func New(key []byte) (*Codec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrBadKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Codec{key: k}, nil
}

// Decode decrypts a base64 card payload into a passenger ID. Any structural
// problem (bad base64, bad block length, bad padding, non-text plaintext)
// returns ErrBadPayload — callers treat all of them as a card rejection.
func (c *Codec) Decode(payload string) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d", ErrBadPayload, len(ct))
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, c.iv()).CryptBlocks(pt, ct)

	pt, err = unpad(pt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(pt) == 0 || !utf8.Valid(pt) {
		return "", fmt.Errorf("%w: plaintext not valid text", ErrBadPayload)
	}
	return string(pt), nil
}

// Encode encrypts a passenger ID into the base64 card payload format.
// Used by the dev seeder and card-writing tools, not by the boarding path.
func (c *Codec) Encode(passengerID string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	pt := pad([]byte(passengerID), aes.BlockSize)
	ct := make([]byte, len(pt))
	cipher.NewCBCEncrypter(block, c.iv()).CryptBlocks(ct, pt)
	return base64.StdEncoding.EncodeToString(ct), nil
}

// iv returns the IV mandated by the card format: the first block of the key.
func (c *Codec) iv() []byte {
	return c.key[:aes.BlockSize]
}

func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errors.New("bad padding length")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("bad padding bytes")
		}
	}
	return b[:len(b)-n], nil
}
