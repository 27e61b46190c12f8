/*
DESCRIPTION
  Jpeghist decodes a JPEG file, recovers an approximate per-block DC
  coefficient for every 8x8 block of the decoded image, and plots a
  histogram of those values. It is a diagnostic tool for spotting blocking
  artifacts or unusually flat/noisy source images.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements jpeghist, a per-block DC coefficient histogram tool.
package main

import (
	"flag"
	"image"
	"os"

	"github.com/ausocean/utils/logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/jpeg/codec/jpeg"
)

// blockSize is the JPEG block dimension; it must match the decoder's own.
const blockSize = 8

func main() {
	inPtr := flag.String("in", "", "Path to the JPEG file to analyse.")
	outPtr := flag.String("out", "", "Path to write the histogram PNG to.")
	binsPtr := flag.Int("bins", 32, "Number of histogram bins.")
	flag.Parse()

	l := logging.New(logging.Debug, os.Stderr, false)
	jpeg.Log = l

	if *inPtr == "" || *outPtr == "" {
		l.Fatal("both -in and -out are required")
	}

	buf, err := os.ReadFile(*inPtr)
	if err != nil {
		l.Fatal("could not read input file", "error", err.Error(), "path", *inPtr)
	}

	img, err := jpeg.Decode(buf, jpeg.WithLogger(l))
	if err != nil {
		l.Fatal("could not decode JPEG", "error", err.Error())
	}

	dc := blockDCValues(img)
	l.Debug("recovered block DC values", "blocks", len(dc))

	if err := plotHistogram(dc, *binsPtr, *outPtr); err != nil {
		l.Fatal("could not plot histogram", "error", err.Error())
	}
}

// blockDCValues estimates a DC coefficient for every non-overlapping 8x8
// block of img. An all-DC 8x8 block inverse-transforms to a flat value of
// D/8 (see the decoder's IDCT basis), so the mean zero-centered luma sample
// over a block recovers D/8, and D follows by multiplying by 8.
func blockDCValues(img image.Image) []float64 {
	b := img.Bounds()
	var out []float64
	for by := b.Min.Y; by < b.Max.Y; by += blockSize {
		for bx := b.Min.X; bx < b.Max.X; bx += blockSize {
			var sum float64
			var n int
			for y := by; y < by+blockSize && y < b.Max.Y; y++ {
				for x := bx; x < bx+blockSize && x < b.Max.X; x++ {
					r, g, bl, _ := img.At(x, y).RGBA()
					luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
					sum += luma - 128
					n++
				}
			}
			out = append(out, sum/float64(n)*float64(blockSize))
		}
	}
	return out
}

func plotHistogram(values []float64, bins int, path string) error {
	p := plot.New()
	p.Title.Text = "Per-block DC coefficient distribution"
	p.X.Label.Text = "DC coefficient"
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return err
	}
	p.Add(hist)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
