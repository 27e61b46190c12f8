/*
DESCRIPTION
  bitstream.go implements the MSB-first, byte-stuffed bit reader used to
  pull Huffman codes and raw coefficient bits out of JPEG entropy-coded
  scan data. Per ITU-T T.81 F.1.2.3, an encoder inserts a 0x00 byte after
  every literal 0xFF byte appearing in the entropy stream so that 0xFF can
  never be confused with the start of a marker; this reader transparently
  undoes that stuffing as it reads.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// bitReader reads single bits MSB-first out of a byte-stuffed JPEG
// entropy-coded segment held in buf[start:end]. It never reads past end:
// the segmenter (segment.go) is responsible for bounding the scan to the
// bytes preceding the next marker that is not a restart marker. Restart
// markers inside that range are consumed by decodeScan, not by this reader.
type bitReader struct {
	buf   []byte
	pos   int // Byte offset of the next unread byte.
	end   int // Exclusive upper bound within buf.
	cur   byte
	nbits uint // Number of unread bits remaining in cur, MSB-aligned.
}

func newBitReader(buf []byte, start, end int) *bitReader {
	return &bitReader{buf: buf, pos: start, end: end}
}

// fill loads the next literal byte of entropy data into cur, undoing byte
// stuffing (0xFF 0x00 -> 0xFF) along the way. It returns a wrapped
// ErrUnexpectedEOF if the scan runs out of bytes, and ErrMalformedScan if
// a 0xFF is not followed by 0x00 (i.e. a marker, including a restart
// marker, appears where entropy data was expected).
func (r *bitReader) fill() error {
	if r.pos >= r.end {
		return errors.Wrap(ErrUnexpectedEOF, "bitstream: ran out of scan data")
	}
	b := r.buf[r.pos]
	r.pos++
	if b == 0xff {
		if r.pos >= r.end {
			return errors.Wrap(ErrUnexpectedEOF, "bitstream: truncated stuffing sequence")
		}
		if r.buf[r.pos] != 0x00 {
			return errors.Wrapf(ErrMalformedScan, "bitstream: marker 0xff%02x found in entropy data", r.buf[r.pos])
		}
		r.pos++
	}
	r.cur = b
	r.nbits = 8
	return nil
}

// readBit returns the next single bit of the stream, MSB-first.
func (r *bitReader) readBit() (int, error) {
	if r.nbits == 0 {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	r.nbits--
	return int(r.cur>>r.nbits) & 1, nil
}

// readBits reads n bits (0 <= n <= 16) and returns them as an unsigned
// integer, most significant bit first.
func (r *bitReader) readBits(n int) (int, error) {
	var v int
	for i := 0; i < n; i++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | bit
	}
	return v, nil
}

// align discards any partially-consumed byte so the next read starts on a
// byte boundary. Used before checking for a restart marker.
func (r *bitReader) align() {
	r.nbits = 0
}

// extend implements the classical JPEG "EXTEND" procedure (ITU-T T.81
// F.2.2.1): given a magnitude category t and the t raw bits v read for a
// DC or AC coefficient, it returns the signed coefficient value. Values
// with their high bit clear represent negative numbers in JPEG's
// variable-length integer encoding.
func extend(v, t int) int32 {
	if t == 0 {
		return 0
	}
	vt := 1 << (t - 1)
	if v < vt {
		return int32(v - (1 << t) + 1)
	}
	return int32(v)
}
