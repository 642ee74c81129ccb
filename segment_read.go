/*
NAME
  segment_read.go

DESCRIPTION
  segment_read.go implements ReadSegment: framing, dispatch and payload
  parsing for the five PGS segment kinds (component C read path). Each
  segment is read as a fixed header followed by a length-delimited
  payload buffer, which is then parsed field by field according to its
  kind.

LICENSE
  See repository LICENSE.
*/

package pgs

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/go-pgs/pgs/wire"
)

// ReadSegment reads one PGS segment from r. If the stream ends cleanly
// before any bytes of a new segment are read, io.EOF is returned verbatim
// so callers can use it as a read-loop terminator; any other end-of-stream
// condition (a segment left truncated mid-frame) is reported as
// io.ErrUnexpectedEOF.
func ReadSegment(r io.Reader) (*Segment, error) {
	wr := wire.NewReader(r)

	magic, err := wr.U16()
	if err != nil {
		return nil, err
	}
	if magic != magicNumber {
		return nil, ErrUnrecognizedMagicNumber
	}

	pts, err := wr.U32()
	if err != nil {
		return nil, unexpected(err)
	}
	dts, err := wr.U32()
	if err != nil {
		return nil, unexpected(err)
	}
	kindByte, err := wr.U8()
	if err != nil {
		return nil, unexpected(err)
	}
	kind := Kind(kindByte)
	switch kind {
	case KindPDS, KindODS, KindPCS, KindWDS, KindEnd:
	default:
		return nil, ErrUnrecognizedKind
	}

	size, err := wr.U16()
	if err != nil {
		return nil, unexpected(err)
	}
	payload, err := wr.Bytes(int(size))
	if err != nil {
		return nil, unexpected(err)
	}

	var data Data
	switch kind {
	case KindPCS:
		data, err = parsePCS(payload)
	case KindWDS:
		data, err = parseWDS(payload)
	case KindPDS:
		data, err = parsePDS(payload)
	case KindODS:
		data, err = parseODS(payload)
	case KindEnd:
		data = &EndSegment{}
	}
	if err != nil {
		return nil, err
	}

	return &Segment{PTS: pts, DTS: dts, Data: data}, nil
}

// unexpected promotes a clean io.EOF encountered after a segment has
// started into io.ErrUnexpectedEOF, since only EOF before the magic number
// is a legitimate read-loop terminator.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func parsePCS(payload []byte) (*PresentationComposition, error) {
	br := bytes.NewReader(payload)
	wr := wire.NewReader(br)

	width, err := wr.U16()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: width")
	}
	height, err := wr.U16()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: height")
	}
	frameRate, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: frame rate")
	}
	number, err := wr.U16()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: composition number")
	}
	stateByte, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: composition state")
	}
	state := CompositionState(stateByte)
	switch state {
	case StateNormal, StateAcquisitionPoint, StateEpochStart:
	default:
		return nil, ErrUnrecognizedCompositionState
	}
	pufByte, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: palette update flag")
	}
	if pufByte != paletteUpdateFalse && pufByte != paletteUpdateTrue {
		return nil, ErrUnrecognizedPaletteUpdateFlag
	}
	paletteID, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: palette id")
	}
	count, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "presentation composition: object count")
	}

	var objects []CompositionObjectRecord
	for i := 0; i < int(count); i++ {
		objID, err := wr.U16()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "presentation composition: object %d/%d: object id", i+1, count)
		}
		winID, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "presentation composition: object %d/%d: window id", i+1, count)
		}
		flags, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "presentation composition: object %d/%d: flags", i+1, count)
		}
		x, err := wr.U16()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "presentation composition: object %d/%d: x", i+1, count)
		}
		y, err := wr.U16()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "presentation composition: object %d/%d: y", i+1, count)
		}

		rec := CompositionObjectRecord{
			ObjectID: objID,
			WindowID: winID,
			Forced:   flags&flagForced != 0,
			X:        x,
			Y:        y,
		}

		// Compatibility exception (§4.C): some discs (the U.S. release of
		// Final Fantasy VII: Advent Children Complete) set the cropped bit
		// but omit the 8 crop bytes at end of payload. Treat that as
		// "no crop" rather than an error.
		if flags&flagCropped != 0 && br.Len() >= 8 {
			cropX, _ := wr.U16()
			cropY, _ := wr.U16()
			cropW, _ := wr.U16()
			cropH, _ := wr.U16()
			rec.Crop = &Crop{X: cropX, Y: cropY, Width: cropW, Height: cropH}
		}

		objects = append(objects, rec)
	}

	return &PresentationComposition{
		Width:             width,
		Height:            height,
		FrameRate:         frameRate,
		CompositionNumber: number,
		CompositionState:  state,
		PaletteUpdate:     pufByte == paletteUpdateTrue,
		PaletteID:         paletteID,
		Objects:           objects,
	}, nil
}

func parseWDS(payload []byte) (*WindowDefinition, error) {
	wr := wire.NewReader(bytes.NewReader(payload))

	count, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "window definition: count")
	}

	windows := make([]WindowRecord, 0, count)
	for i := 0; i < int(count); i++ {
		id, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "window definition: window %d/%d: id", i+1, count)
		}
		x, err := wr.U16()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "window definition: window %d/%d: x", i+1, count)
		}
		y, err := wr.U16()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "window definition: window %d/%d: y", i+1, count)
		}
		w, err := wr.U16()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "window definition: window %d/%d: width", i+1, count)
		}
		h, err := wr.U16()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "window definition: window %d/%d: height", i+1, count)
		}
		windows = append(windows, WindowRecord{ID: id, X: x, Y: y, Width: w, Height: h})
	}

	return &WindowDefinition{Windows: windows}, nil
}

func parsePDS(payload []byte) (*PaletteDefinition, error) {
	wr := wire.NewReader(bytes.NewReader(payload))

	id, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "palette definition: id")
	}
	version, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "palette definition: version")
	}

	n := (len(payload) - 2) / 5
	entries := make([]PaletteEntryRecord, 0, n)
	for i := 0; i < n; i++ {
		entryID, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "palette definition: entry %d/%d: id", i+1, n)
		}
		y, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "palette definition: entry %d/%d: y", i+1, n)
		}
		cr, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "palette definition: entry %d/%d: cr", i+1, n)
		}
		cb, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "palette definition: entry %d/%d: cb", i+1, n)
		}
		alpha, err := wr.U8()
		if err != nil {
			return nil, errors.Wrapf(unexpected(err), "palette definition: entry %d/%d: alpha", i+1, n)
		}
		entries = append(entries, PaletteEntryRecord{ID: entryID, Y: y, Cr: cr, Cb: cb, Alpha: alpha})
	}

	return &PaletteDefinition{ID: id, Version: version, Entries: entries}, nil
}

func parseODS(payload []byte) (*ObjectDefinition, error) {
	wr := wire.NewReader(bytes.NewReader(payload))

	id, err := wr.U16()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "object definition: id")
	}
	version, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "object definition: version")
	}
	seqByte, err := wr.U8()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "object definition: sequence flag")
	}
	seq := ObjectSequence(seqByte)
	switch seq {
	case SequenceSingle, SequenceInitial, SequenceMiddle, SequenceFinal:
	default:
		return nil, ErrUnrecognizedObjectSequence
	}
	length, err := wr.U24()
	if err != nil {
		return nil, errors.Wrap(unexpected(err), "object definition: data length")
	}

	var width, height uint16
	if seq == SequenceSingle || seq == SequenceInitial {
		width, err = wr.U16()
		if err != nil {
			return nil, errors.Wrap(unexpected(err), "object definition: width")
		}
		height, err = wr.U16()
		if err != nil {
			return nil, errors.Wrap(unexpected(err), "object definition: height")
		}
	}

	// §9: the declared length field's "+4" quirk is only checkable in the
	// Single case, where it must equal the segment size minus the 7 bytes
	// of id/version/sequence-flag/length. For Initial/Middle/Final it
	// reflects the object's total across all fragments and is not independently
	// verifiable from one segment alone, so it is read and carried but not
	// validated here.
	if seq == SequenceSingle && length != uint32(len(payload))-7 {
		return nil, ErrInvalidObjectDataLength
	}

	data := make([]byte, 0, len(payload))
	if rest, err := wr.Bytes(len(payload) - consumedLen(len(payload), seq)); err == nil {
		data = rest
	} else if err != io.EOF {
		return nil, errors.Wrap(unexpected(err), "object definition: data")
	}

	return &ObjectDefinition{
		ID:             id,
		Version:        version,
		Sequence:       seq,
		Width:          width,
		Height:         height,
		DeclaredLength: length,
		Data:           data,
	}, nil
}

// consumedLen returns how many bytes of an ODS payload of size n were
// already consumed by the fixed fields before the variable-length data.
func consumedLen(n int, seq ObjectSequence) int {
	if seq == SequenceSingle || seq == SequenceInitial {
		return 11 // id(2) + version(1) + sequence(1) + length(3) + width(2) + height(2)
	}
	return 7 // id(2) + version(1) + sequence(1) + length(3)
}
