/*
DESCRIPTION
  idct.go implements the baseline JPEG inverse discrete cosine transform.
  The 2D 8x8 IDCT is separable: it can be computed as C^T * F * C, where F
  is the dequantized coefficient block and C is the fixed 8x8 orthonormal
  DCT-II basis matrix. This package builds C once and leans on gonum's
  dense matrix multiplication rather than hand-rolling the row/column
  passes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const blockSize = 8

// dctBasis and dctBasisT are the fixed orthonormal 8x8 DCT-II basis
// matrix and its transpose, shared read-only across every block this
// package inverse-transforms.
var dctBasis, dctBasisT = buildDCTBasis()

func buildDCTBasis() (*mat.Dense, *mat.Dense) {
	c := mat.NewDense(blockSize, blockSize, nil)
	for u := 0; u < blockSize; u++ {
		alpha := math.Sqrt(2.0 / float64(blockSize))
		if u == 0 {
			alpha = math.Sqrt(1.0 / float64(blockSize))
		}
		for x := 0; x < blockSize; x++ {
			c.Set(u, x, alpha*math.Cos(float64(2*x+1)*float64(u)*math.Pi/(2*float64(blockSize))))
		}
	}
	var ct mat.Dense
	ct.CloneFrom(c.T())
	return c, &ct
}

// idct performs the inverse DCT on a natural-order (already dequantized)
// coefficient block, returning 64 spatial-domain samples in natural
// row-major order, still centered on zero (i.e. not yet level-shifted by
// +128). Values are neither rounded nor clipped here; rounding and
// clipping to [0,255] happen once, after the level shift and color
// conversion in image.go.
func idct(coeffs *[64]int32) *[64]float64 {
	f := mat.NewDense(blockSize, blockSize, nil)
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			f.Set(y, x, float64(coeffs[y*blockSize+x]))
		}
	}

	var tmp, out mat.Dense
	tmp.Mul(dctBasisT, f)
	out.Mul(&tmp, dctBasis)

	var samples [64]float64
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			samples[y*blockSize+x] = out.At(y, x)
		}
	}
	return &samples
}
