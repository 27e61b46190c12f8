/*
DESCRIPTION
  scan.go parses the SOS (start of scan) segment payload: the set of
  components participating in the scan and, for each, the DC and AC
  Huffman table selectors to decode it with. Baseline JPEG always scans
  all components in a single pass with Ss=0, Se=63, Ah=Al=0, but this
  decoder still reads and validates those fields rather than assuming
  them, so a non-baseline scan header is rejected explicitly instead of
  silently misbehaving.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// scanComponent binds one component selector to the DC and AC Huffman
// table ids it should be decoded with for the current scan.
type scanComponent struct {
	cs byte // Component selector, matched against frameComponent.id.
	td byte // DC table selector.
	ta byte // AC table selector.
}

// scanHeader is the parsed content of a SOS segment.
type scanHeader struct {
	components []scanComponent
	ss, se     byte
	ah, al     byte
}

// parseScanHeader parses a SOS segment payload.
func parseScanHeader(data []byte) (*scanHeader, error) {
	if len(data) < 1 {
		return nil, errors.Wrap(ErrInvalidSegmentLength, "scan: SOS payload too short")
	}
	ns := int(data[0])
	if len(data) < 1+2*ns+3 {
		return nil, errors.Wrap(ErrInvalidSegmentLength, "scan: SOS payload too short for declared component count")
	}

	sh := &scanHeader{}
	off := 1
	for i := 0; i < ns; i++ {
		sh.components = append(sh.components, scanComponent{
			cs: data[off],
			td: data[off+1] >> 4,
			ta: data[off+1] & 0x0f,
		})
		off += 2
	}
	sh.ss = data[off]
	sh.se = data[off+1]
	sh.ah = data[off+2] >> 4
	sh.al = data[off+2] & 0x0f

	if sh.ss != 0 || sh.se != 63 || sh.ah != 0 || sh.al != 0 {
		return nil, errors.Wrap(ErrInvalidFrameType, "scan: non-baseline spectral selection in SOS header")
	}
	return sh, nil
}
