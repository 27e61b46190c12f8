/*
DESCRIPTION
  errors.go defines the sentinel errors returned by the baseline JPEG
  decoder in this package. Each is wrapped with positional context via
  errors.Wrap/Wrapf at the call site rather than being returned bare, so
  callers can match on the sentinel with errors.Is while still getting a
  human-readable message.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// Decode error taxonomy. See ErrorHandling in SPEC_FULL.md §7.
var (
	// ErrIO indicates an underlying byte-source failure (open, read, seek).
	ErrIO = errors.New("jpeg: io error")

	// ErrInvalidSegment indicates a missing 0xFF prefix where a marker was expected.
	ErrInvalidSegment = errors.New("jpeg: invalid segment")

	// ErrInvalidSegmentType indicates a marker byte outside the recognized set.
	ErrInvalidSegmentType = errors.New("jpeg: invalid segment type")

	// ErrInvalidSegmentLength indicates a declared length < 2 or beyond remaining input.
	ErrInvalidSegmentLength = errors.New("jpeg: invalid segment length")

	// ErrInvalidFrameType indicates a SOFn variant other than baseline DCT.
	ErrInvalidFrameType = errors.New("jpeg: invalid frame type, only baseline DCT is supported")

	// ErrUnsupportedComponentCount indicates a frame without exactly three components.
	ErrUnsupportedComponentCount = errors.New("jpeg: only 3-component (Y, Cb, Cr) frames are supported")

	// ErrInvalidHuffmanTable indicates canonical-code overflow while parsing a DHT table.
	ErrInvalidHuffmanTable = errors.New("jpeg: invalid huffman table")

	// ErrHuffmanDecode indicates no Huffman code matched within 16 bits.
	ErrHuffmanDecode = errors.New("jpeg: huffman decode failed")

	// ErrInvalidTableReference indicates a SOS/SOF reference to an undefined
	// quantization or Huffman table id.
	ErrInvalidTableReference = errors.New("jpeg: invalid table reference")

	// ErrInvalidFrameID indicates a scan component referencing a frame
	// component id that the frame header never defined.
	ErrInvalidFrameID = errors.New("jpeg: invalid frame component id")

	// ErrRestartMismatch indicates no valid restart marker was found where
	// one was expected. A valid restart marker whose cycle index doesn't
	// match is not this error unless WithStrict is set; by default it is a
	// soft warning logged through the configured Logger.
	ErrRestartMismatch = errors.New("jpeg: restart marker mismatch")

	// ErrUnexpectedEOF indicates premature end of the input stream.
	ErrUnexpectedEOF = errors.New("jpeg: unexpected end of file")

	// ErrMalformedScan indicates malformed entropy-coded scan data: a marker
	// where entropy bits were expected, a DC category above 11, or an AC
	// run that advances the zig-zag index past the end of the block.
	ErrMalformedScan = errors.New("jpeg: malformed scan data")

	// ErrDimensionsTooLarge indicates the frame declares dimensions beyond
	// the configured maximum (see WithMaxDimensions).
	ErrDimensionsTooLarge = errors.New("jpeg: image dimensions exceed configured maximum")
)
