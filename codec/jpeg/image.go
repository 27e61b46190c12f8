/*
DESCRIPTION
  image.go assembles decoded MCU blocks into a final RGBA image: chroma
  components are upsampled by integer replication to the luma sampling
  grid, YCbCr samples are converted to RGB using the ITU-R BT.601
  coefficients, and the padding columns/rows introduced by an image whose
  dimensions are not an exact multiple of the MCU size are clipped away.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "image"

// newRGBA allocates the destination image for a frame of the given pixel
// dimensions.
func newRGBA(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// writeMCU converts one MCU's decoded blocks into RGBA pixels and writes
// them into img at MCU grid position (mcuX, mcuY), clipping any part of
// the MCU that falls outside img's bounds. blocks is indexed in scan
// order, which for the only component layout this decoder accepts (three
// components, Y then Cb then Cr) means blocks[0] is luma and blocks[1],
// blocks[2] are chroma.
func writeMCU(img *image.RGBA, blocks mcuBlocks, bindings []*componentBinding, hMax, vMax, mcuX, mcuY int) {
	mcuPixW := hMax * blockSize
	mcuPixH := vMax * blockSize
	originX := mcuX * mcuPixW
	originY := mcuY * mcuPixH

	bounds := img.Bounds()

	for dy := 0; dy < mcuPixH; dy++ {
		py := originY + dy
		if py >= bounds.Dy() {
			break
		}
		for dx := 0; dx < mcuPixW; dx++ {
			px := originX + dx
			if px >= bounds.Dx() {
				break
			}

			y := sampleAt(blocks[0], bindings[0], hMax, vMax, dx, dy)
			cb := sampleAt(blocks[1], bindings[1], hMax, vMax, dx, dy)
			cr := sampleAt(blocks[2], bindings[2], hMax, vMax, dx, dy)

			r, g, b := ycbcrToRGB(y, cb, cr)
			off := img.PixOffset(px, py)
			img.Pix[off] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = 0xff
		}
	}
}

// sampleAt returns the still-centered (not level-shifted) sample value
// for component binding b at MCU-relative pixel (dx, dy), upsampling by
// integer replication when b's sampling factors are below the frame
// maximum.
func sampleAt(blocks []*[64]float64, b *componentBinding, hMax, vMax, dx, dy int) float64 {
	rh := hMax / b.h
	rv := vMax / b.v

	csx := dx / rh
	csy := dy / rv

	bx := csx / blockSize
	by := csy / blockSize
	block := blocks[by*b.h+bx]

	lx := csx % blockSize
	ly := csy % blockSize
	return block[ly*blockSize+lx]
}

// ycbcrToRGB converts zero-centered Y, Cb and Cr sample values (i.e.
// before the conventional +128 level shift) to 8-bit RGB using the
// ITU-R BT.601 coefficients, clipping to the valid range.
func ycbcrToRGB(y, cb, cr float64) (byte, byte, byte) {
	r := y + 128 + 1.402*cr
	g := y + 128 - 0.344136*cb - 0.714136*cr
	b := y + 128 + 1.772*cb
	return clip8(r), clip8(g), clip8(b)
}

func clip8(v float64) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return byte(v + 0.5)
	}
}
