package jpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"io"
	"testing"

	"github.com/ausocean/utils/logging"
)

// testLogger is a logger that discards everything, for tests that don't
// care about diagnostic output.
var testLogger = logging.New(logging.Debug, io.Discard, true)

// minimalTables returns a DHT payload defining exactly one DC table and
// one AC table (both id 0), each holding a single one-bit code: DC
// category 0 ("0") and AC end-of-block ("0"). Every block encoded against
// these tables decodes to all-zero coefficients using a single data bit
// per coefficient class, which keeps hand-built entropy data trivial
// while still exercising the real canonical Huffman parser and decoder.
func minimalTables() []byte {
	var buf bytes.Buffer

	bits := make([]byte, 17)
	bits[1] = 1

	// DC table, class 0, id 0.
	buf.WriteByte(0x00)
	buf.Write(bits)
	buf.WriteByte(0x00) // Category 0.

	// AC table, class 1, id 0.
	buf.WriteByte(0x10)
	buf.Write(bits)
	buf.WriteByte(0x00) // EOB.

	return buf.Bytes()
}

func writeSegment(buf *bytes.Buffer, marker byte, payload []byte) {
	buf.WriteByte(0xff)
	buf.WriteByte(marker)
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(payload)+2))
	buf.Write(length[:])
	buf.Write(payload)
}

// identityDQT returns a DQT payload defining a single 8-bit, all-ones
// quantization table with id 0, so dequantization is a no-op.
func identityDQT() []byte {
	payload := make([]byte, 1+64)
	for i := range payload[1:] {
		payload[1+i] = 1
	}
	return payload
}

func sof0Payload(width, height int, h, v byte) []byte {
	return []byte{
		8, // Precision.
		byte(height >> 8), byte(height),
		byte(width >> 8), byte(width),
		3,
		1, h<<4 | v, 0,
		2, h<<4 | v, 0,
		3, h<<4 | v, 0,
	}
}

func sosPayload() []byte {
	return []byte{
		3,
		1, 0x00,
		2, 0x00,
		3, 0x00,
		0, 63, 0,
	}
}

// mcuBits packs n MCUs of entropy data, each bitsPerMCU bits (two bits,
// DC category then AC end-of-block, per block, for every block of every
// component in the MCU), byte-aligning (and inserting a restart marker)
// after every restartEvery MCUs when restartEvery > 0.
func mcuBits(n, bitsPerMCU, restartEvery int) []byte {
	var buf bytes.Buffer
	var cur byte
	var nbits int
	flush := func() {
		if nbits > 0 {
			buf.WriteByte(cur)
			cur = 0
			nbits = 0
		}
	}
	rst := byte(0xd0)
	for i := 0; i < n; i++ {
		for b := 0; b < bitsPerMCU; b++ {
			cur <<= 1
			nbits++
			if nbits == 8 {
				buf.WriteByte(cur)
				cur = 0
				nbits = 0
			}
		}
		if restartEvery > 0 && (i+1)%restartEvery == 0 && i != n-1 {
			flush()
			buf.WriteByte(0xff)
			buf.WriteByte(rst)
			rst = 0xd0 + (rst-0xd0+1)%8
		}
	}
	flush()
	return buf.Bytes()
}

func buildMinimalJPEG(t *testing.T, width, height int, h, v byte, restartInterval, numMCUs int) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteByte(0xff)
	buf.WriteByte(codeSOI)
	writeSegment(&buf, codeDQT, identityDQT())
	writeSegment(&buf, codeDHT, minimalTables())
	if restartInterval > 0 {
		dri := make([]byte, 2)
		binary.BigEndian.PutUint16(dri, uint16(restartInterval))
		writeSegment(&buf, codeDRI, dri)
	}
	writeSegment(&buf, codeSOF0, sof0Payload(width, height, h, v))
	writeSegment(&buf, codeSOS, sosPayload())
	bitsPerMCU := 3 * int(h) * int(v) * 2 // 3 components, h*v blocks each, 2 bits (DC+AC) per block.
	buf.Write(mcuBits(numMCUs, bitsPerMCU, restartInterval))
	buf.WriteByte(0xff)
	buf.WriteByte(codeEOI)
	return buf.Bytes()
}

func TestDecodeFlatGray(t *testing.T) {
	data := buildMinimalJPEG(t, 8, 8, 1, 1, 0, 1)

	img, err := Decode(data, WithLogger(testLogger))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("Decode returned %T, want *image.RGBA", img)
	}
	if rgba.Bounds().Dx() != 8 || rgba.Bounds().Dy() != 8 {
		t.Fatalf("decoded dimensions = %v, want 8x8", rgba.Bounds())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, b, a := rgba.At(x, y).RGBA()
			if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 || a>>8 != 255 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d,%d), want (128,128,128,255)", x, y, r>>8, g>>8, b>>8, a>>8)
			}
		}
	}
}

func TestDecodePaddingMCU(t *testing.T) {
	// 17x17 with every component at h=v=2 (MCU is 16x16 pixels) forces a
	// right and bottom row/column of padding MCUs to be clipped rather than
	// written.
	data := buildMinimalJPEG(t, 17, 17, 2, 2, 0, 4)

	img, err := Decode(data, WithLogger(testLogger))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 17 || img.Bounds().Dy() != 17 {
		t.Fatalf("decoded dimensions = %v, want 17x17", img.Bounds())
	}
}

func TestDecodeRestartInterval(t *testing.T) {
	// 16x8 at 4:4:4 is two MCUs wide; a restart interval of 1 forces a
	// restart marker between them.
	data := buildMinimalJPEG(t, 16, 8, 1, 1, 1, 2)

	img, err := Decode(data, WithLogger(testLogger))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, g, b, _ := img.At(15, 0).RGBA()
	if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 {
		t.Fatalf("pixel (15,0) = (%d,%d,%d), want (128,128,128)", r>>8, g>>8, b>>8)
	}
}

// withWrongRestartIndex rewrites the single restart marker that
// buildMinimalJPEG(..., restartInterval=1, numMCUs=2) inserts between its
// two MCUs (0xFF 0xD0, the expected RST0) to 0xFF 0xD2 (RST2), simulating a
// valid restart marker whose cycle index doesn't match what the decoder
// expects next.
func withWrongRestartIndex(t *testing.T, data []byte) []byte {
	t.Helper()
	i := bytes.Index(data, []byte{0xff, 0xd0})
	if i < 0 {
		t.Fatalf("no restart marker found in test fixture")
	}
	out := append([]byte(nil), data...)
	out[i+1] = 0xd2
	return out
}

func TestDecodeRestartCycleMismatchIsSoftByDefault(t *testing.T) {
	data := withWrongRestartIndex(t, buildMinimalJPEG(t, 16, 8, 1, 1, 1, 2))

	img, err := Decode(data, WithLogger(testLogger))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, g, b, _ := img.At(15, 0).RGBA()
	if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 {
		t.Fatalf("pixel (15,0) = (%d,%d,%d), want (128,128,128)", r>>8, g>>8, b>>8)
	}
}

func TestDecodeRestartCycleMismatchFailsWithStrict(t *testing.T) {
	data := withWrongRestartIndex(t, buildMinimalJPEG(t, 16, 8, 1, 1, 1, 2))

	_, err := Decode(data, WithLogger(testLogger), WithStrict(true))
	if !errors.Is(err, ErrRestartMismatch) {
		t.Fatalf("Decode: got %v, want ErrRestartMismatch", err)
	}
}

func TestDecodeMalformedHuffmanTable(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0xff)
	buf.WriteByte(codeSOI)
	writeSegment(&buf, codeDQT, identityDQT())

	bits := make([]byte, 17)
	bits[1] = 3 // Over-subscribed: three length-1 codes cannot exist.
	var bad bytes.Buffer
	bad.WriteByte(0x00)
	bad.Write(bits)
	bad.Write([]byte{0, 1, 2})
	writeSegment(&buf, codeDHT, bad.Bytes())

	writeSegment(&buf, codeSOF0, sof0Payload(8, 8, 1, 1))
	buf.WriteByte(0xff)
	buf.WriteByte(codeEOI)

	_, err := Decode(buf.Bytes(), WithLogger(testLogger))
	if err == nil {
		t.Fatal("expected an error decoding an over-subscribed Huffman table")
	}
}

func TestDecodeTruncatedStream(t *testing.T) {
	data := buildMinimalJPEG(t, 8, 8, 1, 1, 0, 1)
	truncated := data[:len(data)-4] // Cut off EOI, the single entropy byte and the last SOS header byte.

	_, err := Decode(truncated, WithLogger(testLogger))
	if err == nil {
		t.Fatal("expected an error decoding a truncated stream")
	}
}

func TestDecodeDimensionsTooLarge(t *testing.T) {
	data := buildMinimalJPEG(t, 8, 8, 1, 1, 0, 1)

	_, err := Decode(data, WithLogger(testLogger), WithMaxDimensions(4, 4))
	if err == nil {
		t.Fatal("expected ErrDimensionsTooLarge")
	}
}

