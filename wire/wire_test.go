package wire

import (
	"bytes"
	"io"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.U8(0xAB); err != nil {
		t.Fatalf("U8: %v", err)
	}
	if err := w.U16(0x1234); err != nil {
		t.Fatalf("U16: %v", err)
	}
	if err := w.U24(0x01FFFE); err != nil {
		t.Fatalf("U24: %v", err)
	}
	if err := w.U32(0xDEADBEEF); err != nil {
		t.Fatalf("U32: %v", err)
	}
	if err := w.Bytes([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	r := NewReader(&buf)
	if v, err := r.U8(); err != nil || v != 0xAB {
		t.Fatalf("U8 = 0x%x, %v; want 0xAB", v, err)
	}
	if v, err := r.U16(); err != nil || v != 0x1234 {
		t.Fatalf("U16 = 0x%x, %v; want 0x1234", v, err)
	}
	if v, err := r.U24(); err != nil || v != 0x01FFFE {
		t.Fatalf("U24 = 0x%x, %v; want 0x01FFFE", v, err)
	}
	if v, err := r.U32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("U32 = 0x%x, %v; want 0xDEADBEEF", v, err)
	}
	if b, err := r.Bytes(3); err != nil || !bytes.Equal(b, []byte{1, 2, 3}) {
		t.Fatalf("Bytes = %v, %v; want [1 2 3]", b, err)
	}
}

func TestReaderEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	if _, err := r.U8(); err != io.EOF {
		t.Fatalf("U8 on empty source = %v; want io.EOF", err)
	}
}

func TestReaderUnexpectedEOF(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	if _, err := r.U16(); err != io.ErrUnexpectedEOF {
		t.Fatalf("U16 on truncated source = %v; want io.ErrUnexpectedEOF", err)
	}
}

func TestReaderBytesZero(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	b, err := r.Bytes(0)
	if err != nil {
		t.Fatalf("Bytes(0): %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("Bytes(0) = %v; want empty", b)
	}
}
