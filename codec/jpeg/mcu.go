/*
DESCRIPTION
  mcu.go decodes a single minimum coded unit (MCU): for every component
  bound to the scan, it Huffman-decodes and dequantizes each of that
  component's h*v blocks, then inverse-transforms them. The result is
  still centered on zero and in natural row-major sample order; level
  shifting, upsampling and color conversion happen in image.go once a
  whole MCU's blocks are available together.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// mcuBlocks holds, for one MCU, the decoded-and-inverse-transformed
// blocks of every component, indexed first by component (in binding
// order) and then by block within that component (row-major within the
// component's h x v grid of blocks).
type mcuBlocks [][]*[64]float64

// decodeMCU decodes one MCU's worth of blocks for every bound component.
func decodeMCU(r *bitReader, bindings []*componentBinding) (mcuBlocks, error) {
	out := make(mcuBlocks, len(bindings))
	for ci, b := range bindings {
		n := b.h * b.v
		blocks := make([]*[64]float64, n)
		for i := 0; i < n; i++ {
			block, err := decodeBlock(r, b)
			if err != nil {
				return nil, errors.Wrapf(err, "mcu: decoding block %d of component %d", i, b.id)
			}
			blocks[i] = block
		}
		out[ci] = blocks
	}
	return out, nil
}

// decodeBlock decodes, dequantizes and inverse-transforms a single 8x8
// block for component b, updating its running DC predictor.
func decodeBlock(r *bitReader, b *componentBinding) (*[64]float64, error) {
	var scan [64]int32

	// DC coefficient: a Huffman-coded magnitude category followed by that
	// many raw bits, decoded via the classical JPEG "extend" procedure and
	// accumulated against the component's running predictor.
	t, err := b.dc.decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "mcu: decoding DC category")
	}
	if t > 11 {
		return nil, errors.Wrap(ErrMalformedScan, "mcu: DC category out of range")
	}
	bits, err := r.readBits(int(t))
	if err != nil {
		return nil, errors.Wrap(err, "mcu: reading DC bits")
	}
	b.dcPred += extend(bits, int(t))
	scan[0] = b.dcPred

	// AC coefficients: a stream of (run, size) symbols until either all 63
	// positions are filled or an end-of-block symbol (0x00) appears. A
	// zero-run-length symbol (0xF0, "ZRL") skips 16 zero coefficients
	// without itself encoding a value.
	k := 1
	for k < 64 {
		rs, err := b.ac.decode(r)
		if err != nil {
			return nil, errors.Wrap(err, "mcu: decoding AC run/size")
		}
		run := int(rs >> 4)
		size := rs & 0x0f

		if rs == 0x00 {
			break // EOB: remaining coefficients are zero.
		}
		if rs == 0xf0 {
			k += 16
			if k > 64 {
				return nil, errors.Wrap(ErrMalformedScan, "mcu: ZRL run advanced past end of block")
			}
			continue
		}

		k += run
		if k >= 64 {
			return nil, errors.Wrap(ErrMalformedScan, "mcu: AC run advanced past end of block")
		}
		bits, err := r.readBits(int(size))
		if err != nil {
			return nil, errors.Wrap(err, "mcu: reading AC bits")
		}
		scan[k] = extend(bits, int(size))
		k++
	}

	var natural [64]int32
	unzigzag(&natural, &scan)
	b.qtable.dequantize(&natural)
	return idct(&natural), nil
}
