// Package cfb8 implements AES-128 in 8-bit cipher-feedback mode, the
// stream cipher Minecraft's protocol negotiates for an encrypted
// connection. Go's standard library only offers full-block CFB
// (crypto/cipher.NewCFBEncrypter operates on 16-byte feedback), so this
// is hand-rolled over crypto/aes per the byte-at-a-time contract: for
// each plaintext byte p, ciphertext c = p XOR AES(iv)[0], then iv shifts
// left by one byte with c appended at the end. Decryption mirrors this
// with plaintext and ciphertext swapped.
package cfb8

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/cockroachdb/errors"
)

// Cipher holds the persistent IV state for one direction of an
// AES-128/CFB8 stream. The key schedule is shared between the two
// directions of a connection; the IV is not — each direction keeps its
// own running shift register, initialized to the same 16-byte key.
type Cipher struct {
	block cipher.Block
	iv    [aes.BlockSize]byte
	tmp   [aes.BlockSize]byte
}

// New builds a Cipher from a 16-byte symmetric session key. The IV is
// initialized to the key itself, matching the protocol's negotiation.
func New(key [16]byte) (*Cipher, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "cfb8: build aes block cipher")
	}
	c := &Cipher{block: block}
	c.iv = key
	return c, nil
}

// Encrypt transforms plaintext into ciphertext in place, advancing the
// IV as each byte is produced. Resumable across calls/buffer boundaries.
func (c *Cipher) Encrypt(data []byte) {
	for i, p := range data {
		c.block.Encrypt(c.tmp[:], c.iv[:])
		ct := p ^ c.tmp[0]
		data[i] = ct
		c.shift(ct)
	}
}

// Decrypt transforms ciphertext into plaintext in place, symmetric with
// Encrypt: the IV shifts in the ciphertext byte regardless of direction.
func (c *Cipher) Decrypt(data []byte) {
	for i, ct := range data {
		c.block.Encrypt(c.tmp[:], c.iv[:])
		pt := ct ^ c.tmp[0]
		data[i] = pt
		c.shift(ct)
	}
}

// shift slides the IV left by one byte and appends b, the feedback
// contract for CFB8 (the newest ciphertext byte becomes the low byte).
func (c *Cipher) shift(b byte) {
	copy(c.iv[:aes.BlockSize-1], c.iv[1:])
	c.iv[aes.BlockSize-1] = b
}
