/*
DESCRIPTION
  huffman.go builds canonical Huffman decoding tables from the bits/values
  representation carried in a JPEG DHT segment, and decodes symbols from a
  bitReader against them. Short codes (<= huffmanFastBits) are resolved
  with a single direct-indexed table lookup; longer codes fall back to a
  bit-at-a-time walk against the canonical code table, matching the two
  standard strategies described in ITU-T T.81 Annex C and F.2.2.3.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// huffmanFastBits is the width of the direct-lookup acceleration table.
// Most real-world Huffman codes used in JPEG scans are shorter than this,
// so the fast path handles the overwhelming majority of symbols; codes
// longer than huffmanFastBits fall back to the bit-by-bit table.
const huffmanFastBits = 9

// huffmanCode is one canonical code assigned to a symbol.
type huffmanCode struct {
	code   uint16
	length uint8
	symbol byte
}

// huffmanTable is a parsed DHT table ready for decoding.
type huffmanTable struct {
	codes []huffmanCode

	// fast[i] is (symbol<<8 | length) for the code whose top huffmanFastBits
	// bits equal i, or 0 if no such code exists (length 0 is never valid).
	fast [1 << huffmanFastBits]uint16

	// maxLength is the longest code length present in the table, used to
	// bound the bit-by-bit fallback walk.
	maxLength uint8
}

// newHuffmanTable builds a huffmanTable from the standard bits/values
// representation: bits[i] (1 <= i <= 16) is the number of codes of length
// i, and values holds the symbols in order of increasing code (shortest
// codes, and ties broken by transmission order, first). This is the
// canonical code assignment procedure of ITU-T T.81 Annex C.
func newHuffmanTable(bits []byte, values []byte) (*huffmanTable, error) {
	t := &huffmanTable{}

	var code uint16
	vi := 0
	for length := 1; length <= 16; length++ {
		n := int(bits[length])
		for i := 0; i < n; i++ {
			if vi >= len(values) {
				return nil, errors.Wrap(ErrInvalidHuffmanTable, "huffman: values shorter than bits table claims")
			}
			if code >= 1<<uint(length) {
				return nil, errors.Wrap(ErrInvalidHuffmanTable, "huffman: code overflow, table is not canonical")
			}
			t.codes = append(t.codes, huffmanCode{code: code, length: uint8(length), symbol: values[vi]})
			if length <= huffmanFastBits {
				t.fill(code, uint8(length), values[vi])
			}
			t.maxLength = uint8(length)
			code++
			vi++
		}
		code <<= 1
	}
	return t, nil
}

// fill populates every fast-table slot whose top `length` bits match code.
func (t *huffmanTable) fill(code uint16, length uint8, symbol byte) {
	shift := huffmanFastBits - int(length)
	base := int(code) << shift
	entry := uint16(symbol)<<8 | uint16(length)
	for i := 0; i < 1<<shift; i++ {
		t.fast[base+i] = entry
	}
}

// decode reads one Huffman-coded symbol from r against table t.
func (t *huffmanTable) decode(r *bitReader) (byte, error) {
	peek, bitsAvail, err := peekBits(r, huffmanFastBits)
	if err != nil {
		return 0, err
	}
	if bitsAvail == huffmanFastBits {
		if entry := t.fast[peek]; entry != 0 {
			length := uint8(entry)
			if err := r.consumeBits(int(length)); err != nil {
				return 0, err
			}
			return byte(entry >> 8), nil
		}
	}

	// Fall back to a bit-by-bit canonical walk for long codes, or for the
	// tail of the stream where fewer than huffmanFastBits remain.
	var code uint16
	var length uint8
	for length < t.maxLength {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | uint16(bit)
		length++
		for _, c := range t.codes {
			if c.length == length && c.code == code {
				return c.symbol, nil
			}
		}
	}
	return 0, errors.Wrap(ErrHuffmanDecode, "huffman: no matching code within 16 bits")
}

// peekBits returns up to n bits from r without consuming them, along with
// how many bits were actually available (fewer than n only near the end
// of the scan). Peeked bits are left-aligned within the returned value
// when fewer than n bits are available, matching the fast-table's shift
// convention.
func peekBits(r *bitReader, n int) (uint16, int, error) {
	save := *r
	var v uint16
	got := 0
	for i := 0; i < n; i++ {
		bit, err := r.readBit()
		if err != nil {
			*r = save
			if got == 0 {
				return 0, 0, err
			}
			v <<= uint(n - got)
			return v, got, nil
		}
		v = v<<1 | uint16(bit)
		got++
	}
	*r = save
	return v, got, nil
}

// consumeBits advances r by n bits previously inspected via peekBits.
func (r *bitReader) consumeBits(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.readBit(); err != nil {
			return err
		}
	}
	return nil
}

// parseDHT parses a DHT segment payload, which may carry one or more
// tables back to back, storing each into dcTables or acTables (keyed by
// its id) according to its class nibble.
func parseDHT(data []byte, dcTables, acTables map[byte]*huffmanTable) error {
	for len(data) > 0 {
		if len(data) < 17 {
			return errors.Wrap(ErrInvalidSegmentLength, "huffman: DHT payload too short for bits table")
		}
		class := data[0] >> 4
		id := data[0] & 0x0f
		bits := data[0:17] // bits[0] is the class/id byte; newHuffmanTable indexes from 1.
		data = data[17:]

		n := deriveN(bits)
		if len(data) < n {
			return errors.Wrap(ErrInvalidSegmentLength, "huffman: DHT payload too short for symbol list")
		}
		values := data[:n]
		data = data[n:]

		table, err := newHuffmanTable(bits, values)
		if err != nil {
			return err
		}

		switch class {
		case 0:
			dcTables[id] = table
		case 1:
			acTables[id] = table
		default:
			return errors.Wrapf(ErrInvalidHuffmanTable, "huffman: invalid table class %d", class)
		}
	}
	return nil
}
