// Package frame implements the length-prefixed, optionally-compressed,
// optionally-encrypted packet pipeline described in spec.md §4.5 and
// §6.2. Grounded on the teacher's pkg/protocol (VarInt-prefixed framing
// over io.Reader/io.Writer) generalized to the stateful incremental
// decoder the 1.20.x protocol needs, plus klauspost/compress/zlib for
// the deflate layer (grounded on darshanime-pebble's compression stack)
// and pkg/cfb8 for the stream cipher.
package frame

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/cockroachdb/errors"

	"github.com/StoreStation/blockwright/pkg/cfb8"
	"github.com/StoreStation/blockwright/pkg/protoerr"
	"github.com/StoreStation/blockwright/pkg/varint"
)

// NoCompression disables the compression layer entirely (threshold < 0).
const NoCompression = -1

// Decoder carries the append-only raw-input buffer and cursors described
// in spec.md §4.5: n is the next-undecoded-byte cursor, m is the
// last-decrypted-byte cursor. Decoded payloads are kept in a distinct
// buffer (out) rather than appended to the tail of buf itself — buf's
// raw frames and out's decoded frames share the same VarInt(len)||payload
// shape, and reusing one array for both would make the parse loop in
// Decode liable to re-parse its own just-decoded output as new raw
// input.
type Decoder struct {
	buf []byte
	n   int
	m   int
	out []byte

	threshold int // -1 disables compression
	cipher    *cfb8.Cipher
}

// NewDecoder builds a Decoder with compression disabled. Call
// EnableCompression / EnableEncryption once the login sequence
// negotiates them — both take effect starting with the next decode.
func NewDecoder() *Decoder {
	return &Decoder{threshold: NoCompression}
}

// EnableCompression turns on the compression layer with the given
// threshold (payloads shorter than threshold are shipped uncompressed
// with an inner VarInt(0)).
func (d *Decoder) EnableCompression(threshold int) { d.threshold = threshold }

// EnableEncryption installs a persistent AES-128/CFB8 cipher; all bytes
// appended from this point on are decrypted in place before framing.
func (d *Decoder) EnableEncryption(c *cfb8.Cipher) { d.cipher = c }

// Feed appends newly-read transport bytes to the decoder's buffer.
func (d *Decoder) Feed(data []byte) {
	d.buf = append(d.buf, data...)
}

// Decode advances the decoder as far as possible, decrypting, unframing,
// and (if enabled) decompressing complete frames into the internal
// "decoded" tail. It returns protoerr.Malformed on any framing violation.
func (d *Decoder) Decode() error {
	if d.cipher != nil && d.m < len(d.buf) {
		d.cipher.Decrypt(d.buf[d.m:])
		d.m = len(d.buf)
	}

	for {
		frameLen, lenSize, ok, err := varint.ReadV21(d.buf[d.n:])
		if err != nil {
			return errors.Wrap(err, "frame: malformed frame length")
		}
		if !ok {
			return nil // need more data
		}
		start := d.n + lenSize
		if len(d.buf)-start < int(frameLen) {
			return nil // need more data
		}
		frameBody := d.buf[start : start+int(frameLen)]
		d.n = start + int(frameLen)

		if d.threshold == NoCompression {
			d.emitDecoded(frameBody)
			continue
		}
		if err := d.decodeCompressedFrame(frameBody); err != nil {
			return err
		}
	}
}

func (d *Decoder) decodeCompressedFrame(frameBody []byte) error {
	uncompressedLen, sz, ok := varint.ReadV32(frameBody)
	if !ok {
		return errors.Wrap(protoerr.Malformed, "frame: truncated uncompressed-length prefix")
	}
	rest := frameBody[sz:]
	if uncompressedLen == 0 {
		d.emitDecoded(rest)
		return nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return errors.Wrap(protoerr.Malformed, "frame: invalid zlib stream")
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, int64(uncompressedLen)+1))
	if err != nil {
		return errors.Wrap(protoerr.Malformed, "frame: zlib inflate failed")
	}
	if len(out) != int(uncompressedLen) {
		return errors.Wrapf(protoerr.Malformed, "frame: inflated length %d != declared %d", len(out), uncompressedLen)
	}
	d.emitDecoded(out)
	return nil
}

// emitDecoded appends one decoded payload to the decoded-output buffer as
// a VarInt(len)||payload frame, matching spec.md §4.5 step 6.
func (d *Decoder) emitDecoded(payload []byte) {
	d.out = varint.AppendV32(d.out, uint32(len(payload)))
	d.out = append(d.out, payload...)
}

// compact drops the raw-input bytes already consumed by Decode, keeping
// buf/n/m small across many Feed/Decode cycles.
func (d *Decoder) compact() {
	if d.n == 0 {
		return
	}
	d.buf = append(d.buf[:0], d.buf[d.n:]...)
	d.m -= d.n
	if d.m < 0 {
		d.m = 0
	}
	d.n = 0
}

// Packets drains and returns every complete decoded payload currently
// buffered, advancing the internal read cursor. Each returned slice is a
// copy safe to retain past the next Feed/Decode call.
func (d *Decoder) Packets() ([][]byte, error) {
	var packets [][]byte
	pos := 0
	for pos < len(d.out) {
		l, sz, ok := varint.ReadV32(d.out[pos:])
		if !ok {
			break
		}
		start := pos + sz
		if start+int(l) > len(d.out) {
			break
		}
		payload := append([]byte(nil), d.out[start:start+int(l)]...)
		packets = append(packets, payload)
		pos = start + int(l)
	}
	if pos > 0 {
		d.out = append(d.out[:0], d.out[pos:]...)
	}
	d.compact()
	return packets, nil
}

// Encoder assembles outgoing frames: VarInt(len)||payload, optionally
// compressed and optionally encrypted, per spec.md §4.5/§6.2.
type Encoder struct {
	threshold int
	cipher    *cfb8.Cipher
}

// NewEncoder builds an Encoder with compression disabled.
func NewEncoder() *Encoder {
	return &Encoder{threshold: NoCompression}
}

// EnableCompression mirrors Decoder.EnableCompression.
func (e *Encoder) EnableCompression(threshold int) { e.threshold = threshold }

// EnableEncryption mirrors Decoder.EnableEncryption.
func (e *Encoder) EnableEncryption(c *cfb8.Cipher) { e.cipher = c }

// Encode appends one framed (and optionally compressed/encrypted) packet
// for payload to dst and returns the extended slice.
func (e *Encoder) Encode(dst []byte, payload []byte) []byte {
	var framed []byte
	switch {
	case e.threshold == NoCompression:
		framed = varint.AppendV32(nil, uint32(len(payload)))
		framed = append(framed, payload...)
	case len(payload) < e.threshold:
		inner := varint.AppendV32(nil, 0)
		inner = append(inner, payload...)
		framed = varint.AppendV32(nil, uint32(len(inner)))
		framed = append(framed, inner...)
	default:
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		_, _ = zw.Write(payload)
		_ = zw.Close()

		inner := varint.AppendV32(nil, uint32(len(payload)))
		inner = append(inner, compressed.Bytes()...)
		framed = varint.AppendV32(nil, uint32(len(inner)))
		framed = append(framed, inner...)
	}
	if e.cipher != nil {
		e.cipher.Encrypt(framed)
	}
	return append(dst, framed...)
}
