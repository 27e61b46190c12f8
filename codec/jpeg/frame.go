/*
DESCRIPTION
  frame.go parses the SOF0 (baseline DCT) segment payload into a frame
  header: sample precision, pixel dimensions and the per-component
  sampling factors and quantization table bindings that the rest of the
  decoder needs to lay out the MCU grid.

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

	"github.com/pkg/errors"
)

// frameComponent describes one component (Y, Cb or Cr) as declared by a
// SOF0 segment.
type frameComponent struct {
	id   byte
	h, v byte // Horizontal and vertical sampling factors.
	tq   byte // Quantization table selector.
}

// frameHeader is the parsed content of a SOF0 segment.
type frameHeader struct {
	precision byte
	height    int
	width     int
	components []frameComponent
}

// parseFrameHeader parses a SOF0 segment payload. Only baseline DCT
// (SOF0) with exactly three components is supported: Decode rejects the
// other SOFn markers with ErrInvalidFrameType before calling this, and
// greyscale or 4-component frames are rejected here with
// ErrUnsupportedComponentCount.
func parseFrameHeader(data []byte) (*frameHeader, error) {
	if len(data) < 6 {
		return nil, errors.Wrap(ErrInvalidSegmentLength, "frame: SOF0 payload too short")
	}
	precision := data[0]
	height := int(binary.BigEndian.Uint16(data[1:]))
	width := int(binary.BigEndian.Uint16(data[3:]))
	nComp := int(data[5])
	if nComp != 3 {
		return nil, errors.Wrapf(ErrUnsupportedComponentCount, "frame: SOF0 declares %d components", nComp)
	}
	if len(data) < 6+3*nComp {
		return nil, errors.Wrap(ErrInvalidSegmentLength, "frame: SOF0 payload too short for declared component count")
	}

	fh := &frameHeader{precision: precision, height: height, width: width}
	off := 6
	for i := 0; i < nComp; i++ {
		c := frameComponent{
			id: data[off],
			h:  data[off+1] >> 4,
			v:  data[off+1] & 0x0f,
			tq: data[off+2],
		}
		fh.components = append(fh.components, c)
		off += 3
	}
	return fh, nil
}

// hMax and vMax return the maximum horizontal and vertical sampling
// factors across all components, which together size the MCU grid.
func (fh *frameHeader) hMax() int {
	m := 0
	for _, c := range fh.components {
		if int(c.h) > m {
			m = int(c.h)
		}
	}
	return m
}

func (fh *frameHeader) vMax() int {
	m := 0
	for _, c := range fh.components {
		if int(c.v) > m {
			m = int(c.v)
		}
	}
	return m
}

// component looks up a frame component by its id, as referenced from a
// scan header's component selectors.
func (fh *frameHeader) component(id byte) (*frameComponent, error) {
	for i := range fh.components {
		if fh.components[i].id == id {
			return &fh.components[i], nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidFrameID, "frame: no component with id %d", id)
}
