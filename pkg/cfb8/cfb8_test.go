package cfb8

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymmetry(t *testing.T) {
	var key [16]byte
	_, err := rand.Read(key[:])
	require.NoError(t, err)

	enc, err := New(key)
	require.NoError(t, err)
	dec, err := New(key)
	require.NoError(t, err)

	plain := []byte("the quick brown fox jumps over the lazy dog, 1234567890!")
	cipherText := append([]byte(nil), plain...)
	enc.Encrypt(cipherText)
	require.NotEqual(t, plain, cipherText)

	dec.Decrypt(cipherText)
	require.Equal(t, plain, cipherText)
}

func TestResumableAcrossChunks(t *testing.T) {
	var key [16]byte
	copy(key[:], []byte("0123456789abcdef"))

	full := bytes.Repeat([]byte{0xAB}, 37)

	oneShot := append([]byte(nil), full...)
	c1, _ := New(key)
	c1.Encrypt(oneShot)

	chunked := append([]byte(nil), full...)
	c2, _ := New(key)
	c2.Encrypt(chunked[:10])
	c2.Encrypt(chunked[10:23])
	c2.Encrypt(chunked[23:])

	require.Equal(t, oneShot, chunked)
}
