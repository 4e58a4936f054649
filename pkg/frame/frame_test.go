package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/StoreStation/blockwright/pkg/cfb8"
)

func sessionKey() [16]byte {
	var k [16]byte
	for i := range k {
		k[i] = byte(i * 7)
	}
	return k
}

// roundTrip feeds enc's output through dec, optionally sliced at
// arbitrary byte boundaries (chunkSize bytes per Feed call), and asserts
// the decoded payloads come back in order, identical to the inputs.
func roundTrip(t *testing.T, enc *Encoder, dec *Decoder, payloads [][]byte, chunkSize int) {
	t.Helper()

	var wire []byte
	for _, p := range payloads {
		wire = enc.Encode(wire, p)
	}

	var got [][]byte
	for i := 0; i < len(wire); i += chunkSize {
		end := i + chunkSize
		if end > len(wire) {
			end = len(wire)
		}
		dec.Feed(wire[i:end])
		require.NoError(t, dec.Decode())
		pkts, err := dec.Packets()
		require.NoError(t, err)
		got = append(got, pkts...)
	}

	require.Equal(t, len(payloads), len(got))
	for i := range payloads {
		require.Equal(t, payloads[i], got[i])
	}
}

func samplePayloads() [][]byte {
	return [][]byte{
		[]byte("hello"),
		{},
		[]byte("a slightly longer payload to exercise framing boundaries"),
		bytesOfLen(5000),
		[]byte("final"),
	}
}

func bytesOfLen(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestFrameRoundTripPlain(t *testing.T) {
	for _, chunk := range []int{1, 3, 64, 1 << 20} {
		enc := NewEncoder()
		dec := NewDecoder()
		roundTrip(t, enc, dec, samplePayloads(), chunk)
	}
}

func TestFrameRoundTripCompressed(t *testing.T) {
	for _, chunk := range []int{1, 7, 256} {
		enc := NewEncoder()
		enc.EnableCompression(8)
		dec := NewDecoder()
		dec.EnableCompression(8)
		roundTrip(t, enc, dec, samplePayloads(), chunk)
	}
}

func TestFrameRoundTripEncrypted(t *testing.T) {
	key := sessionKey()
	for _, chunk := range []int{1, 5, 512} {
		encCipher, err := cfb8.New(key)
		require.NoError(t, err)
		decCipher, err := cfb8.New(key)
		require.NoError(t, err)

		enc := NewEncoder()
		enc.EnableEncryption(encCipher)
		dec := NewDecoder()
		dec.EnableEncryption(decCipher)
		roundTrip(t, enc, dec, samplePayloads(), chunk)
	}
}

func TestFrameRoundTripCompressedAndEncrypted(t *testing.T) {
	key := sessionKey()
	encCipher, err := cfb8.New(key)
	require.NoError(t, err)
	decCipher, err := cfb8.New(key)
	require.NoError(t, err)

	enc := NewEncoder()
	enc.EnableCompression(8)
	enc.EnableEncryption(encCipher)
	dec := NewDecoder()
	dec.EnableCompression(8)
	dec.EnableEncryption(decCipher)
	roundTrip(t, enc, dec, samplePayloads(), 17)
}

// TestFrameDoesNotReparseDecodedOutput guards against the decoder
// treating its own emitted VarInt(len)||payload output as a fresh raw
// frame: feed one full frame, drain it, then feed a second full frame in
// a single subsequent call and confirm exactly the two payloads surface,
// not more.
func TestFrameDoesNotReparseDecodedOutput(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	var wire []byte
	wire = enc.Encode(wire, []byte("first"))

	dec.Feed(wire)
	require.NoError(t, dec.Decode())
	pkts, err := dec.Packets()
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("first")}, pkts)

	var wire2 []byte
	wire2 = enc.Encode(wire2, []byte("second"))
	dec.Feed(wire2)
	require.NoError(t, dec.Decode())
	pkts, err = dec.Packets()
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("second")}, pkts)
}

func TestFrameEmptyPacketsOnNoData(t *testing.T) {
	dec := NewDecoder()
	require.NoError(t, dec.Decode())
	pkts, err := dec.Packets()
	require.NoError(t, err)
	require.Empty(t, pkts)
}
