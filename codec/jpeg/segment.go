/*
DESCRIPTION
  segment.go walks the marker-delimited segment structure of a JFIF/JPEG
  byte stream: SOI, APPn, COM, DQT, DHT, DRI, SOFn, SOS and EOI, each
  introduced by a two-byte big-endian 0xFFxx marker and (other than SOI,
  EOI and the RSTn restart markers) followed by a two-byte big-endian
  length covering the length field itself plus the segment payload.

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

// Additional marker codes not already declared in jpeg.go.
const (
	codeCOM  = 0xfe
	codeRST0 = 0xd0
	codeRST7 = 0xd7
	codeSOF1 = 0xc1
	codeSOF2 = 0xc2
)

// isRST reports whether marker is one of the eight restart markers.
func isRST(marker byte) bool {
	return marker >= codeRST0 && marker <= codeRST7
}

// isAPPn reports whether marker is one of the sixteen application markers.
func isAPPn(marker byte) bool {
	return marker >= 0xe0 && marker <= 0xef
}

// segment is one marker segment read from a byte stream: its marker code
// and, for markers that carry one, the payload bytes following the
// length field (the length field itself is not included).
type segment struct {
	marker byte
	data   []byte
}

// segmentReader walks buf marker by marker starting at pos.
type segmentReader struct {
	buf []byte
	pos int
}

func newSegmentReader(buf []byte) *segmentReader {
	return &segmentReader{buf: buf}
}

// next reads the marker at the current position and, for markers that
// carry a length-prefixed payload, the payload itself, advancing pos past
// it. SOI, EOI and the RSTn markers carry no payload and data is nil.
func (s *segmentReader) next() (segment, error) {
	if s.pos+2 > len(s.buf) {
		return segment{}, errors.Wrap(ErrUnexpectedEOF, "segment: truncated stream looking for marker")
	}
	if s.buf[s.pos] != 0xff {
		return segment{}, errors.Wrapf(ErrInvalidSegment, "segment: expected 0xff at offset %d, got 0x%02x", s.pos, s.buf[s.pos])
	}
	marker := s.buf[s.pos+1]
	s.pos += 2

	switch marker {
	case codeSOI, codeEOI:
		return segment{marker: marker}, nil
	default:
		if isRST(marker) {
			return segment{marker: marker}, nil
		}
	}

	if s.pos+2 > len(s.buf) {
		return segment{}, errors.Wrap(ErrUnexpectedEOF, "segment: truncated stream reading segment length")
	}
	length := int(binary.BigEndian.Uint16(s.buf[s.pos:]))
	if length < 2 {
		return segment{}, errors.Wrapf(ErrInvalidSegmentLength, "segment: length %d is too short to include itself", length)
	}
	if s.pos+length > len(s.buf) {
		return segment{}, errors.Wrapf(ErrInvalidSegmentLength, "segment: length %d at offset %d runs past end of stream", length, s.pos)
	}
	data := s.buf[s.pos+2 : s.pos+length]
	s.pos += length
	return segment{marker: marker, data: data}, nil
}

// scanDataEnd returns the offset of the marker that terminates the
// entropy-coded scan data beginning at start: the first 0xFF byte in
// buf[start:] that is followed by neither a 0x00 stuffing byte nor a
// restart marker. Byte-stuffed 0xFF 0x00 pairs and RSTn markers are part
// of the scan and are skipped over.
func scanDataEnd(buf []byte, start int) (int, error) {
	i := start
	for {
		if i >= len(buf) {
			return 0, errors.Wrap(ErrUnexpectedEOF, "segment: scan data runs off the end of the stream")
		}
		if buf[i] != 0xff {
			i++
			continue
		}
		if i+1 >= len(buf) {
			return 0, errors.Wrap(ErrUnexpectedEOF, "segment: truncated marker at end of scan data")
		}
		next := buf[i+1]
		if next == 0x00 || isRST(next) {
			i += 2
			continue
		}
		return i, nil
	}
}
