/*
NAME
  segment_write.go

DESCRIPTION
  segment_write.go implements WriteSegment: payload serialization and
  framing for the five PGS segment kinds (component C write path). Each
  payload is rendered into an in-memory buffer first so its exact byte
  length can be written into the segment header's size field, then the
  header and buffer are written to the destination in one pass.

LICENSE
  See repository LICENSE.
*/

package pgs

import (
	"bytes"
	"io"

	"github.com/go-pgs/pgs/wire"
)

// WriteSegment writes one PGS segment to w.
func WriteSegment(w io.Writer, s *Segment) error {
	var buf bytes.Buffer
	bw := wire.NewWriter(&buf)

	var err error
	switch d := s.Data.(type) {
	case *PresentationComposition:
		err = writePCS(bw, d)
	case *WindowDefinition:
		err = writeWDS(bw, d)
	case *PaletteDefinition:
		err = writePDS(bw, d)
	case *ObjectDefinition:
		err = writeODS(bw, d)
	case *EndSegment:
		// no payload
	}
	if err != nil {
		return err
	}

	out := wire.NewWriter(w)
	if err := out.U16(magicNumber); err != nil {
		return err
	}
	if err := out.U32(s.PTS); err != nil {
		return err
	}
	if err := out.U32(s.DTS); err != nil {
		return err
	}
	if err := out.U8(uint8(s.Data.Kind())); err != nil {
		return err
	}
	if err := out.U16(uint16(buf.Len())); err != nil {
		return err
	}
	return out.Bytes(buf.Bytes())
}

func writePCS(w *wire.Writer, d *PresentationComposition) error {
	if len(d.Objects) > 255 {
		return ErrTooManyCompositionObjects
	}
	if err := w.U16(d.Width); err != nil {
		return err
	}
	if err := w.U16(d.Height); err != nil {
		return err
	}
	if err := w.U8(d.FrameRate); err != nil {
		return err
	}
	if err := w.U16(d.CompositionNumber); err != nil {
		return err
	}
	if err := w.U8(uint8(d.CompositionState)); err != nil {
		return err
	}
	puf := uint8(paletteUpdateFalse)
	if d.PaletteUpdate {
		puf = paletteUpdateTrue
	}
	if err := w.U8(puf); err != nil {
		return err
	}
	if err := w.U8(d.PaletteID); err != nil {
		return err
	}
	if err := w.U8(uint8(len(d.Objects))); err != nil {
		return err
	}
	for _, obj := range d.Objects {
		if err := w.U16(obj.ObjectID); err != nil {
			return err
		}
		if err := w.U8(obj.WindowID); err != nil {
			return err
		}
		var flags uint8
		if obj.Forced {
			flags |= flagForced
		}
		if obj.Crop != nil {
			flags |= flagCropped
		}
		if err := w.U8(flags); err != nil {
			return err
		}
		if err := w.U16(obj.X); err != nil {
			return err
		}
		if err := w.U16(obj.Y); err != nil {
			return err
		}
		if obj.Crop != nil {
			if err := w.U16(obj.Crop.X); err != nil {
				return err
			}
			if err := w.U16(obj.Crop.Y); err != nil {
				return err
			}
			if err := w.U16(obj.Crop.Width); err != nil {
				return err
			}
			if err := w.U16(obj.Crop.Height); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeWDS(w *wire.Writer, d *WindowDefinition) error {
	if len(d.Windows) > 255 {
		return ErrTooManyWindowDefinitions
	}
	if err := w.U8(uint8(len(d.Windows))); err != nil {
		return err
	}
	for _, win := range d.Windows {
		if err := w.U8(win.ID); err != nil {
			return err
		}
		if err := w.U16(win.X); err != nil {
			return err
		}
		if err := w.U16(win.Y); err != nil {
			return err
		}
		if err := w.U16(win.Width); err != nil {
			return err
		}
		if err := w.U16(win.Height); err != nil {
			return err
		}
	}
	return nil
}

func writePDS(w *wire.Writer, d *PaletteDefinition) error {
	if err := w.U8(d.ID); err != nil {
		return err
	}
	if err := w.U8(d.Version); err != nil {
		return err
	}
	for _, e := range d.Entries {
		if err := w.U8(e.ID); err != nil {
			return err
		}
		if err := w.U8(e.Y); err != nil {
			return err
		}
		if err := w.U8(e.Cr); err != nil {
			return err
		}
		if err := w.U8(e.Cb); err != nil {
			return err
		}
		if err := w.U8(e.Alpha); err != nil {
			return err
		}
	}
	return nil
}

func writeODS(w *wire.Writer, d *ObjectDefinition) error {
	if uint64(len(d.Data)) > 16_777_211 {
		return ErrObjectDataTooLarge
	}
	if err := w.U16(d.ID); err != nil {
		return err
	}
	if err := w.U8(d.Version); err != nil {
		return err
	}
	if err := w.U8(uint8(d.Sequence)); err != nil {
		return err
	}

	// §9: for a Single fragment the length field is fully determined by
	// this fragment's own data and is recomputed rather than trusted; for
	// Initial/Middle/Final it is a cross-fragment total the caller
	// supplies and is written back verbatim.
	length := d.DeclaredLength
	if d.Sequence == SequenceSingle {
		length = uint32(len(d.Data)) + 4
	}
	if err := w.U24(length); err != nil {
		return err
	}

	if d.Sequence == SequenceSingle || d.Sequence == SequenceInitial {
		if err := w.U16(d.Width); err != nil {
			return err
		}
		if err := w.U16(d.Height); err != nil {
			return err
		}
	}
	return w.Bytes(d.Data)
}
