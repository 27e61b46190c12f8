package jpeg

import "testing"

func TestHuffmanTableFastPath(t *testing.T) {
	bits := make([]byte, 17)
	bits[1] = 2 // Two single-bit codes: "0" -> 0x00, "1" -> 0x01.
	values := []byte{0x00, 0x01}

	table, err := newHuffmanTable(bits, values)
	if err != nil {
		t.Fatalf("newHuffmanTable: %v", err)
	}

	// A trailing padding byte ensures at least huffmanFastBits bits are
	// always available, so both decode calls actually exercise the fast
	// direct-lookup path rather than falling back early.
	buf := []byte{0b01000000, 0x00}
	r := newBitReader(buf, 0, len(buf))

	got, err := table.decode(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 0x00 {
		t.Fatalf("first symbol = %#02x, want 0x00", got)
	}

	got, err = table.decode(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 0x01 {
		t.Fatalf("second symbol = %#02x, want 0x01", got)
	}
}

func TestHuffmanTableLongCodeFallback(t *testing.T) {
	bits := make([]byte, 17)
	bits[16] = 1 // A single 16-bit code, which the canonical assignment gives code 0x0000.
	values := []byte{0x2a}

	table, err := newHuffmanTable(bits, values)
	if err != nil {
		t.Fatalf("newHuffmanTable: %v", err)
	}

	buf := []byte{0x00, 0x00}
	r := newBitReader(buf, 0, len(buf))

	got, err := table.decode(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 0x2a {
		t.Fatalf("symbol = %#02x, want 0x2a", got)
	}
}

func TestHuffmanTableOverflow(t *testing.T) {
	bits := make([]byte, 17)
	bits[1] = 3 // Three codes of length 1 cannot exist; max is 2 ("0", "1").
	values := []byte{0x00, 0x01, 0x02}

	_, err := newHuffmanTable(bits, values)
	if err == nil {
		t.Fatal("expected an error for an over-subscribed table")
	}
}

func TestHuffmanTableStandardDC(t *testing.T) {
	// bitsDCLum/valDC are the standard tables reconstructed in jpeg.go;
	// exercise them through the same parser real DHT segments use.
	table, err := newHuffmanTable(bitsDCLum, valDC)
	if err != nil {
		t.Fatalf("newHuffmanTable(bitsDCLum): %v", err)
	}
	if len(table.codes) != nDCLum {
		t.Fatalf("parsed %d codes, want %d", len(table.codes), nDCLum)
	}
}
