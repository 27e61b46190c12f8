/*
DESCRIPTION
  pipeline_test.go exercises the RTP/JPEG reassembly adapter (Context)
  feeding directly into Decode, end to end: a single RTP/JPEG payload,
  using the real standard Huffman tables and a Q=50 derived quantization
  table, is reassembled into a JFIF byte stream and then decoded.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"testing"
)

// TestRTPPayloadDecodesEndToEnd reassembles one RTP/JPEG type-0 (4:2:2)
// payload into a JFIF stream via Context.ParsePayload, then decodes that
// stream with Decode. The hand-built entropy data below encodes every
// block (two Y blocks, one Cb, one Cr) as DC category 0 followed
// immediately by an AC end-of-block symbol, against the real standard
// luminance/chrominance Huffman tables this package reconstructs in
// jpeg.go: DC category 0 is code "00" (2 bits) for both luminance and
// chrominance, and end-of-block is code "1010" (4 bits) for luminance and
// "00" (2 bits) for chrominance. Every coefficient therefore decodes to
// zero, so the expected output is flat mid-gray.
func TestRTPPayloadDecodesEndToEnd(t *testing.T) {
	// Bit layout (MSB first), 20 data bits followed by 4 padding 1-bits:
	//   Y block 0: DC "00" + AC EOB "1010" = 001010
	//   Y block 1: DC "00" + AC EOB "1010" = 001010
	//   Cb:        DC "00" + AC EOB "00"   = 0000
	//   Cr:        DC "00" + AC EOB "00"   = 0000
	entropy := []byte{0x28, 0xa0, 0x0f}

	got := &bytes.Buffer{}
	c := NewContext(got)

	// width=1, height=1 in 8-pixel units -> an 8x8 declared image; type 0
	// selects 4:2:2 sampling, so the single MCU actually covers 16x8
	// pixels and the right half is clipped away by Decode.
	payload := buildRTPJPEGPayload(50, 1, 1, entropy)
	if err := c.ParsePayload(payload, true); err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}

	img, err := Decode(got.Bytes(), WithLogger(testLogger))
	if err != nil {
		t.Fatalf("Decode of reassembled RTP/JPEG payload: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("decoded dimensions = %v, want 8x8", img.Bounds())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want (128,128,128)", x, y, r>>8, g>>8, b>>8)
			}
		}
	}
}
