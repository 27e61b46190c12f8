/*
DESCRIPTION
  quant.go holds parsed DQT (define quantization table) data and the
  dequantization step that multiplies decoded coefficients by their
  table entry before the inverse DCT.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// quantTable is one 8-bit-precision 64-entry quantization table, stored
// in natural (row-major) order after having been read out of its DQT
// zig-zag encoding.
type quantTable [64]uint16

// dequantize multiplies each natural-order coefficient in coeffs by the
// corresponding table entry, in place.
func (q *quantTable) dequantize(coeffs *[64]int32) {
	for i := range coeffs {
		coeffs[i] *= int32(q[i])
	}
}

// parseDQT parses a DQT segment payload, which may carry one or more
// tables back to back, storing each into tables keyed by its id. Only
// 8-bit precision tables are supported, matching this decoder's baseline
// scope; a 16-bit precision table yields ErrUnsupportedPrecision.
func parseDQT(data []byte, tables map[byte]*quantTable) error {
	for len(data) > 0 {
		precision := data[0] >> 4
		id := data[0] & 0x0f
		data = data[1:]

		if precision != 0 {
			return errors.Wrap(ErrUnsupportedPrecision, "quant: only 8-bit DQT precision is supported")
		}
		if len(data) < 64 {
			return errors.Wrap(ErrInvalidSegmentLength, "quant: DQT payload too short for a 64-entry table")
		}

		var scan [64]int32
		for i := 0; i < 64; i++ {
			scan[i] = int32(data[i])
		}
		var natural [64]int32
		unzigzag(&natural, &scan)

		var q quantTable
		for i := range q {
			q[i] = uint16(natural[i])
		}
		tables[id] = &q

		data = data[64:]
	}
	return nil
}
