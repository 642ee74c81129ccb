package pgs

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func roundTripSegment(t *testing.T, s *Segment) *Segment {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteSegment(&buf, s); err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	got, err := ReadSegment(&buf)
	if err != nil {
		t.Fatalf("ReadSegment: %v", err)
	}
	return got
}

func TestSegmentRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		seg  *Segment
	}{
		{
			name: "presentation composition, no objects",
			seg: &Segment{PTS: 1, DTS: 2, Data: &PresentationComposition{
				Width: 1920, Height: 1080, FrameRate: 0x10,
				CompositionNumber: 7, CompositionState: StateEpochStart,
			}},
		},
		{
			name: "presentation composition with cropped and forced objects",
			seg: &Segment{PTS: 10, DTS: 20, Data: &PresentationComposition{
				Width: 1920, Height: 1080, FrameRate: 0x10,
				CompositionNumber: 1, CompositionState: StateNormal,
				PaletteUpdate: true, PaletteID: 3,
				Objects: []CompositionObjectRecord{
					{ObjectID: 1, WindowID: 0, Forced: true},
					{ObjectID: 2, WindowID: 1, Crop: &Crop{X: 1, Y: 2, Width: 3, Height: 4}},
				},
			}},
		},
		{
			name: "window definition",
			seg: &Segment{PTS: 5, DTS: 5, Data: &WindowDefinition{
				Windows: []WindowRecord{
					{ID: 0, X: 0, Y: 0, Width: 100, Height: 200},
					{ID: 1, X: 100, Y: 100, Width: 50, Height: 50},
				},
			}},
		},
		{
			name: "palette definition",
			seg: &Segment{PTS: 5, DTS: 5, Data: &PaletteDefinition{
				ID: 0, Version: 1,
				Entries: []PaletteEntryRecord{
					{ID: 0, Y: 0, Cr: 128, Cb: 128, Alpha: 0},
					{ID: 1, Y: 255, Cr: 128, Cb: 128, Alpha: 255},
				},
			}},
		},
		{
			name: "single object definition",
			seg: &Segment{PTS: 5, DTS: 5, Data: &ObjectDefinition{
				ID: 1, Version: 0, Sequence: SequenceSingle,
				Width: 2, Height: 1, DeclaredLength: 8,
				Data: []byte{0x01, 0x02, 0x00, 0x00},
			}},
		},
		{
			name: "end segment",
			seg:  &Segment{PTS: 5, DTS: 5, Data: &EndSegment{}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := roundTripSegment(t, test.seg)
			if diff := cmp.Diff(test.seg, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadSegmentCleanEOF(t *testing.T) {
	_, err := ReadSegment(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("ReadSegment on empty stream = %v; want io.EOF", err)
	}
}

func TestReadSegmentUnexpectedEOF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSegment(&buf, &Segment{PTS: 1, DTS: 1, Data: &EndSegment{}}); err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	truncated := buf.Bytes()[:5]
	_, err := ReadSegment(bytes.NewReader(truncated))
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("ReadSegment on truncated stream = %v; want io.ErrUnexpectedEOF", err)
	}
}

func TestReadSegmentUnrecognizedMagicNumber(t *testing.T) {
	data := []byte{0xAB, 0xCD, 0, 0, 0, 0, 0, 0, 0, 0, byte(KindEnd), 0, 0}
	_, err := ReadSegment(bytes.NewReader(data))
	if err != ErrUnrecognizedMagicNumber {
		t.Fatalf("ReadSegment = %v; want ErrUnrecognizedMagicNumber", err)
	}
}

func TestReadSegmentUnrecognizedKind(t *testing.T) {
	data := []byte{0x50, 0x47, 0, 0, 0, 0, 0, 0, 0, 0, 0x99, 0, 0}
	_, err := ReadSegment(bytes.NewReader(data))
	if err != ErrUnrecognizedKind {
		t.Fatalf("ReadSegment = %v; want ErrUnrecognizedKind", err)
	}
}

func TestReadSegmentUnrecognizedCompositionState(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSegment(&buf, &Segment{Data: &PresentationComposition{CompositionState: StateNormal}}); err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	raw := buf.Bytes()
	// 13-byte segment header, then width(2)+height(2)+frameRate(1)+number(2)
	// bytes of payload before the composition state byte.
	raw[13+7] = 0x20
	if _, err := ReadSegment(bytes.NewReader(raw)); err != ErrUnrecognizedCompositionState {
		t.Fatalf("ReadSegment = %v; want ErrUnrecognizedCompositionState", err)
	}
}

func TestCropQuirkTolerance(t *testing.T) {
	// A composition object with the cropped flag set but no trailing crop
	// bytes: the payload ends immediately after the y field, as seen on
	// the U.S. release of Final Fantasy VII: Advent Children Complete.
	var payload bytes.Buffer
	payload.Write([]byte{0x07, 0x80})             // width
	payload.Write([]byte{0x04, 0x38})             // height
	payload.WriteByte(0x10)                       // frame rate
	payload.Write([]byte{0x00, 0x01})             // composition number
	payload.WriteByte(byte(StateNormal))          // composition state
	payload.WriteByte(paletteUpdateFalse)         // palette update flag
	payload.WriteByte(0x00)                       // palette id
	payload.WriteByte(0x01)                       // object count
	payload.Write([]byte{0x00, 0x01})             // object id
	payload.WriteByte(0x00)                       // window id
	payload.WriteByte(flagCropped)                // flags: cropped, no crop bytes follow
	payload.Write([]byte{0x00, 0x00})             // x
	payload.Write([]byte{0x00, 0x00})             // y

	var buf bytes.Buffer
	buf.Write([]byte{0x50, 0x47})
	buf.Write([]byte{0, 0, 0, 1})
	buf.Write([]byte{0, 0, 0, 1})
	buf.WriteByte(byte(KindPCS))
	size := payload.Len()
	buf.Write([]byte{byte(size >> 8), byte(size)})
	buf.Write(payload.Bytes())

	seg, err := ReadSegment(&buf)
	if err != nil {
		t.Fatalf("ReadSegment: %v", err)
	}
	pcs := seg.Data.(*PresentationComposition)
	if len(pcs.Objects) != 1 {
		t.Fatalf("got %d composition objects; want 1", len(pcs.Objects))
	}
	if pcs.Objects[0].Crop != nil {
		t.Errorf("Crop = %+v; want nil (quirk tolerance)", pcs.Objects[0].Crop)
	}
}

func TestWriteSegmentTooManyCompositionObjects(t *testing.T) {
	objs := make([]CompositionObjectRecord, 256)
	err := WriteSegment(io.Discard, &Segment{Data: &PresentationComposition{Objects: objs}})
	if err != ErrTooManyCompositionObjects {
		t.Fatalf("WriteSegment = %v; want ErrTooManyCompositionObjects", err)
	}
}

func TestWriteSegmentTooManyWindowDefinitions(t *testing.T) {
	wins := make([]WindowRecord, 256)
	err := WriteSegment(io.Discard, &Segment{Data: &WindowDefinition{Windows: wins}})
	if err != ErrTooManyWindowDefinitions {
		t.Fatalf("WriteSegment = %v; want ErrTooManyWindowDefinitions", err)
	}
}

func TestWriteSegmentObjectDataTooLarge(t *testing.T) {
	err := WriteSegment(io.Discard, &Segment{Data: &ObjectDefinition{
		Sequence: SequenceSingle,
		Data:     make([]byte, 16_777_212),
	}})
	if err != ErrObjectDataTooLarge {
		t.Fatalf("WriteSegment = %v; want ErrObjectDataTooLarge", err)
	}
}

func TestObjectDefinitionLengthQuirk(t *testing.T) {
	// Single: length field must equal segment_size - 7.
	ods := &ObjectDefinition{
		ID: 1, Sequence: SequenceSingle, Width: 1, Height: 1,
		Data: []byte{0x00, 0x00},
	}
	var buf bytes.Buffer
	if err := WriteSegment(&buf, &Segment{Data: ods}); err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	got, err := ReadSegment(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSegment: %v", err)
	}
	gotOds := got.Data.(*ObjectDefinition)
	if gotOds.DeclaredLength != uint32(len(ods.Data))+4 {
		t.Errorf("DeclaredLength = %d; want %d", gotOds.DeclaredLength, len(ods.Data)+4)
	}
}
