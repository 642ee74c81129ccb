/*
NAME
  displayset_write.go

DESCRIPTION
  displayset_write.go implements the display-set assembler's write path
  (component E): emitting a DisplaySet as its bounded run of segments in
  canonical order - presentation composition, window definition (when any
  windows are present), one palette definition per palette, one or more
  object definitions per object, and a closing end segment. Maps are
  walked in ascending key order so two calls over the same DisplaySet
  always produce byte-identical output.

LICENSE
  See repository LICENSE.
*/

package pgs

import (
	"io"

	"github.com/go-pgs/pgs/rle"
)

// Per §9: the largest RLE payload a Single or Initial object-definition
// segment can carry, and the largest a single Middle or Final fragment can
// carry when an object must be split.
const (
	maxSingleObjectData   = 65508
	maxFragmentObjectData = 65515
)

// WriteDisplaySet writes ds to w as its canonical run of segments.
func WriteDisplaySet(w io.Writer, ds *DisplaySet, opts ...Option) error {
	cfg := newConfig(opts)
	if cfg.strictObjectBounds {
		if err := checkObjectBounds(ds); err != nil {
			return err
		}
	}

	if err := writePCSSegment(w, ds); err != nil {
		return err
	}
	if len(ds.Windows) > 0 {
		if err := writeWDSSegment(w, ds); err != nil {
			return err
		}
	}
	for _, vid := range sortedVidKeys(ds.Palettes) {
		if err := writePDSSegment(w, ds, vid); err != nil {
			return err
		}
	}
	for _, vid := range sortedVidKeys(ds.Objects) {
		if err := writeObjectFragments(w, ds, vid, cfg); err != nil {
			return err
		}
	}
	return WriteSegment(w, &Segment{PTS: ds.PTS, DTS: ds.DTS, Data: &EndSegment{}})
}

func writePCSSegment(w io.Writer, ds *DisplaySet) error {
	pcs := &PresentationComposition{
		Width:             ds.Width,
		Height:            ds.Height,
		FrameRate:         ds.FrameRate,
		CompositionNumber: ds.Composition.Number,
		CompositionState:  ds.Composition.State,
	}
	if ds.PaletteUpdateID != nil {
		pcs.PaletteUpdate = true
		pcs.PaletteID = *ds.PaletteUpdateID
	}
	if len(ds.Composition.Objects) > 255 {
		return ErrTooManyCompositionObjects
	}
	for _, cid := range sortedCidKeys(ds.Composition.Objects) {
		co := ds.Composition.Objects[cid]
		pcs.Objects = append(pcs.Objects, CompositionObjectRecord{
			ObjectID: cid.ObjectID,
			WindowID: cid.WindowID,
			Forced:   co.Forced,
			X:        co.X,
			Y:        co.Y,
			Crop:     co.Crop,
		})
	}
	return WriteSegment(w, &Segment{PTS: ds.PTS, DTS: ds.DTS, Data: pcs})
}

func writeWDSSegment(w io.Writer, ds *DisplaySet) error {
	wds := &WindowDefinition{}
	if len(ds.Windows) > 255 {
		return ErrTooManyWindowDefinitions
	}
	for _, id := range sortedU8Keys(ds.Windows) {
		win := ds.Windows[id]
		wds.Windows = append(wds.Windows, WindowRecord{ID: id, X: win.X, Y: win.Y, Width: win.Width, Height: win.Height})
	}
	return WriteSegment(w, &Segment{PTS: ds.PTS, DTS: ds.DTS, Data: wds})
}

func writePDSSegment(w io.Writer, ds *DisplaySet, vid PaletteVid) error {
	pal := ds.Palettes[vid]
	pds := &PaletteDefinition{ID: vid.ID, Version: vid.Version}
	for _, id := range sortedU8Keys(pal.Entries) {
		e := pal.Entries[id]
		pds.Entries = append(pds.Entries, PaletteEntryRecord{ID: id, Y: e.Y, Cr: e.Cr, Cb: e.Cb, Alpha: e.Alpha})
	}
	return WriteSegment(w, &Segment{PTS: ds.PTS, DTS: ds.DTS, Data: pds})
}

func writeObjectFragments(w io.Writer, ds *DisplaySet, vid ObjectVid, cfg *config) error {
	obj := ds.Objects[vid]
	encoded, err := rle.Encode(obj.Lines)
	if err != nil {
		return err
	}

	if len(encoded) <= maxSingleObjectData {
		ods := &ObjectDefinition{
			ID: vid.ID, Version: vid.Version,
			Sequence: SequenceSingle,
			Width:    obj.Width, Height: obj.Height,
			Data: encoded,
		}
		return WriteSegment(w, &Segment{PTS: ds.PTS, DTS: ds.DTS, Data: ods})
	}

	declared := uint32(len(encoded)) + 4
	fragments := splitObjectFragments(encoded)
	cfg.logger.Debugf("pgs: splitting object %d.%d (%d bytes) into %d fragments", vid.ID, vid.Version, len(encoded), len(fragments))

	for i, frag := range fragments {
		var seq ObjectSequence
		var width, height uint16
		switch {
		case i == 0:
			seq = SequenceInitial
			width, height = obj.Width, obj.Height
		case i == len(fragments)-1:
			seq = SequenceFinal
		default:
			seq = SequenceMiddle
		}
		ods := &ObjectDefinition{
			ID: vid.ID, Version: vid.Version,
			Sequence:       seq,
			Width:          width,
			Height:         height,
			DeclaredLength: declared,
			Data:           frag,
		}
		if err := WriteSegment(w, &Segment{PTS: ds.PTS, DTS: ds.DTS, Data: ods}); err != nil {
			return err
		}
	}
	return nil
}

// splitObjectFragments splits data (already known to exceed
// maxSingleObjectData) into an Initial fragment of exactly
// maxSingleObjectData bytes, zero or more Middle fragments of at most
// maxFragmentObjectData bytes, and a closing Final fragment holding the
// remaining (at most maxFragmentObjectData) bytes. Because data is longer
// than maxSingleObjectData, the Final fragment is never empty.
func splitObjectFragments(data []byte) [][]byte {
	fragments := [][]byte{data[:maxSingleObjectData]}
	rest := data[maxSingleObjectData:]
	for len(rest) > maxFragmentObjectData {
		fragments = append(fragments, rest[:maxFragmentObjectData])
		rest = rest[maxFragmentObjectData:]
	}
	return append(fragments, rest)
}
