/*
DESCRIPTION
  Jpegdecode decodes a single baseline JPEG file to PNG, with an optional
  thumbnail downscale.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements jpegdecode, a command-line JPEG-to-PNG decoder.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/ausocean/utils/logging"
	"golang.org/x/image/draw"

	"github.com/ausocean/jpeg/codec/jpeg"
)

func main() {
	inPtr := flag.String("in", "", "Path to the JPEG file to decode.")
	outPtr := flag.String("out", "", "Path to write the decoded PNG to.")
	thumbWidthPtr := flag.Int("thumb-width", 0, "If set with -thumb-height, downscale the decoded image to this width before writing.")
	thumbHeightPtr := flag.Int("thumb-height", 0, "If set with -thumb-width, downscale the decoded image to this height before writing.")
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
	l.Debug("decoded image", "bounds", img.Bounds().String())

	if *thumbWidthPtr > 0 && *thumbHeightPtr > 0 {
		img = scale(img, *thumbWidthPtr, *thumbHeightPtr)
		l.Debug("scaled to thumbnail", "width", *thumbWidthPtr, "height", *thumbHeightPtr)
	}

	if err := writePNG(*outPtr, img); err != nil {
		l.Fatal("could not write PNG", "error", err.Error(), "path", *outPtr)
	}
}

// scale downsamples img to width x height using a bilinear filter.
func scale(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
