/*
DESCRIPTION
  decode.go is the top-level entry point for this package's baseline JPEG
  decoder: Decode walks a complete in-memory JFIF/JPEG byte stream segment
  by segment, accumulating quantization and Huffman tables, and decodes
  the entropy-coded scan MCU by MCU (honouring restart intervals) into an
  RGBA image.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"encoding/binary"
	"image"

	"github.com/pkg/errors"
)

// Decode decodes a complete baseline JPEG image held in buf. Only
// baseline DCT, 3-component (Y, Cb, Cr) JFIF images are supported; see
// SPEC_FULL.md for the full list of Non-goals.
func Decode(buf []byte, opts ...Option) (image.Image, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := newSegmentReader(buf)

	soi, err := r.next()
	if err != nil {
		return nil, errors.Wrap(err, "decode: reading SOI")
	}
	if soi.marker != codeSOI {
		return nil, errors.Wrapf(ErrInvalidSegmentType, "decode: expected SOI, got marker 0x%02x", soi.marker)
	}

	var (
		fh              *frameHeader
		qtables         = make(map[byte]*quantTable)
		dcTables        = make(map[byte]*huffmanTable)
		acTables        = make(map[byte]*huffmanTable)
		restartInterval int
		img             *image.RGBA
	)

	for {
		seg, err := r.next()
		if err != nil {
			return nil, errors.Wrap(err, "decode: reading next segment")
		}

		switch {
		case seg.marker == codeEOI:
			if img == nil {
				return nil, errors.Wrap(ErrUnexpectedEOF, "decode: EOI before any scan was decoded")
			}
			return img, nil

		case seg.marker == codeDQT:
			if err := parseDQT(seg.data, qtables); err != nil {
				return nil, errors.Wrap(err, "decode: parsing DQT")
			}

		case seg.marker == codeDHT:
			if err := parseDHT(seg.data, dcTables, acTables); err != nil {
				return nil, errors.Wrap(err, "decode: parsing DHT")
			}

		case seg.marker == codeDRI:
			if len(seg.data) < 2 {
				return nil, errors.Wrap(ErrInvalidSegmentLength, "decode: DRI payload too short")
			}
			restartInterval = int(binary.BigEndian.Uint16(seg.data))

		case seg.marker == codeSOF0:
			fh, err = parseFrameHeader(seg.data)
			if err != nil {
				return nil, errors.Wrap(err, "decode: parsing SOF0")
			}
			if fh.width > cfg.maxWidth || fh.height > cfg.maxHeight {
				return nil, errors.Wrapf(ErrDimensionsTooLarge, "decode: %dx%d exceeds configured maximum %dx%d", fh.width, fh.height, cfg.maxWidth, cfg.maxHeight)
			}
			cfg.log.Debug("parsed frame header", "width", fh.width, "height", fh.height)

		case seg.marker == codeSOF1 || seg.marker == codeSOF2 || seg.marker == 0xc3: // 0xc3 is SOF3 (lossless).
			return nil, errors.Wrapf(ErrInvalidFrameType, "decode: marker 0x%02x is not baseline DCT", seg.marker)

		case seg.marker == codeSOS:
			if fh == nil {
				return nil, errors.Wrap(ErrNoFrameStart, "decode: SOS before SOF0")
			}
			sh, err := parseScanHeader(seg.data)
			if err != nil {
				return nil, errors.Wrap(err, "decode: parsing SOS")
			}
			bindings, err := bindComponents(fh, sh, qtables, dcTables, acTables)
			if err != nil {
				return nil, errors.Wrap(err, "decode: binding scan components")
			}
			if len(bindings) != 3 {
				return nil, errors.Wrapf(ErrUnsupportedComponentCount, "decode: scan declares %d components", len(bindings))
			}

			end, err := scanDataEnd(buf, r.pos)
			if err != nil {
				return nil, errors.Wrap(err, "decode: locating end of scan data")
			}

			if img == nil {
				img = newRGBA(fh.width, fh.height)
			}
			if err := decodeScan(buf, r.pos, end, fh, bindings, restartInterval, img, cfg); err != nil {
				return nil, errors.Wrap(err, "decode: decoding scan")
			}
			r.pos = end

		case isAPPn(seg.marker), seg.marker == codeCOM:
			// Application-specific and comment segments carry no
			// information this decoder needs; skip over them.

		default:
			return nil, errors.Wrapf(ErrInvalidSegmentType, "decode: unrecognized marker 0x%02x", seg.marker)
		}
	}
}

// decodeScan decodes every MCU of a scan's entropy-coded data (bounded by
// [start, end) within buf) into img, honouring restartInterval by
// resetting each component's DC predictor and resynchronizing on the
// expected RSTn marker between restart-interval-sized groups of MCUs.
func decodeScan(buf []byte, start, end int, fh *frameHeader, bindings []*componentBinding, restartInterval int, img *image.RGBA, cfg *config) error {
	hMax, vMax := fh.hMax(), fh.vMax()
	mcuPixW, mcuPixH := hMax*blockSize, vMax*blockSize
	mcusPerLine := (fh.width + mcuPixW - 1) / mcuPixW
	mcusPerColumn := (fh.height + mcuPixH - 1) / mcuPixH

	r := newBitReader(buf, start, end)
	mcuCount := 0
	nextRST := byte(codeRST0)

	for my := 0; my < mcusPerColumn; my++ {
		for mx := 0; mx < mcusPerLine; mx++ {
			blocks, err := decodeMCU(r, bindings)
			if err != nil {
				return errors.Wrapf(err, "decode: MCU (%d,%d)", mx, my)
			}
			writeMCU(img, blocks, bindings, hMax, vMax, mx, my)
			mcuCount++

			if restartInterval == 0 || mcuCount%restartInterval != 0 {
				continue
			}
			if my == mcusPerColumn-1 && mx == mcusPerLine-1 {
				continue // No restart marker follows the scan's final MCU.
			}

			r.align()
			if r.pos+2 > end {
				return errors.Wrap(ErrRestartMismatch, "decode: truncated stream looking for restart marker")
			}
			if buf[r.pos] != 0xff || !isRST(buf[r.pos+1]) {
				return errors.Wrapf(ErrRestartMismatch, "decode: expected restart marker 0x%02x at offset %d", nextRST, r.pos)
			}
			found := buf[r.pos+1]
			if found != nextRST {
				if cfg.strict {
					return errors.Wrapf(ErrRestartMismatch, "decode: expected restart marker 0x%02x, found 0x%02x at offset %d", nextRST, found, r.pos)
				}
				cfg.log.Warning("restart cycle index mismatch", "expected", nextRST, "found", found, "offset", r.pos)
				nextRST = found
			}
			r.pos += 2
			nextRST = codeRST0 + (nextRST-codeRST0+1)%8

			for _, b := range bindings {
				b.dcPred = 0
			}
			cfg.log.Debug("resynchronized on restart marker", "mcu", mcuCount)
		}
	}
	return nil
}
