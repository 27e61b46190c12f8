/*
DESCRIPTION
  zigzag.go holds the fixed zig-zag scan order used to read an 8x8 block
  of quantized DCT coefficients out of a JPEG entropy-coded scan and back
  into natural (row-major) order.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

// zigzag maps a coefficient's position in the entropy-coded scan order
// (index into this table) to its position in natural row-major order
// within an 8x8 block (the table's value). See ITU-T T.81 Figure A.6.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// unzigzag writes the 64 scan-ordered coefficients in src into dst using
// natural row-major order. dst and src must both have length 64 and must
// not overlap.
func unzigzag(dst *[64]int32, src *[64]int32) {
	for i, pos := range zigzag {
		dst[pos] = src[i]
	}
}
