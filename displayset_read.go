/*
NAME
  displayset_read.go

DESCRIPTION
  displayset_read.go implements the display-set assembler's read path
  (component E): collecting one bounded run of segments - a leading
  presentation composition, any number of window/palette/object
  segments, and a closing end segment - into a validated DisplaySet.
  ReadDisplaySet does the streaming and delegates structural validation
  to AssembleDisplaySet, which also works from an already-collected
  segment slice.

LICENSE
  See repository LICENSE.
*/

package pgs

import "io"

// ReadDisplaySet reads and assembles one display set from r: a
// presentation composition segment, followed by any number of window,
// palette and object segments, followed by an end segment. If the stream
// ends cleanly before any segment of a new display set is read, io.EOF is
// returned verbatim so callers can use it as a read-loop terminator.
func ReadDisplaySet(r io.Reader, opts ...Option) (*DisplaySet, error) {
	first, err := ReadSegment(r)
	if err != nil {
		return nil, err
	}

	segments := []*Segment{first}
	if _, ok := first.Data.(*EndSegment); !ok {
		for {
			seg, err := ReadSegment(r)
			if err != nil {
				if err == io.EOF {
					return nil, ErrMissingEndSegment
				}
				return nil, err
			}
			segments = append(segments, seg)
			if _, ok := seg.Data.(*EndSegment); ok {
				break
			}
		}
	}

	return AssembleDisplaySet(segments, opts...)
}

// AssembleDisplaySet validates and folds an already-collected, in-order
// run of segments into a DisplaySet. It applies exactly the structural
// rules ReadDisplaySet applies to a live stream, so it is also useful for
// building a DisplaySet from segments obtained some other way.
func AssembleDisplaySet(segments []*Segment, opts ...Option) (*DisplaySet, error) {
	cfg := newConfig(opts)

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	pcs, ok := segments[0].Data.(*PresentationComposition)
	if !ok {
		return nil, ErrMissingPresentationComposition
	}

	ds := &DisplaySet{
		PTS:       segments[0].PTS,
		DTS:       segments[0].DTS,
		Width:     pcs.Width,
		Height:    pcs.Height,
		FrameRate: pcs.FrameRate,
		Windows:   map[uint8]Window{},
		Palettes:  map[PaletteVid]Palette{},
		Objects:   map[ObjectVid]Object{},
		Composition: Composition{
			Number:  pcs.CompositionNumber,
			State:   pcs.CompositionState,
			Objects: map[Cid]CompositionObject{},
		},
	}
	if pcs.PaletteUpdate {
		id := pcs.PaletteID
		ds.PaletteUpdateID = &id
	}
	for _, rec := range pcs.Objects {
		ds.Composition.Objects[Cid{ObjectID: rec.ObjectID, WindowID: rec.WindowID}] = CompositionObject{
			X: rec.X, Y: rec.Y, Forced: rec.Forced, Crop: rec.Crop,
		}
	}

	var assembler objectAssembler
	sawEnd := false

	for _, seg := range segments[1:] {
		if sawEnd {
			return nil, ErrSegmentAfterEnd
		}
		if seg.PTS != ds.PTS {
			return nil, ErrInconsistentPts
		}
		if seg.DTS != ds.DTS {
			return nil, ErrInconsistentDts
		}

		switch d := seg.Data.(type) {
		case *PresentationComposition:
			return nil, ErrUnexpectedPresentationComposition

		case *WindowDefinition:
			for _, win := range d.Windows {
				if _, exists := ds.Windows[win.ID]; exists {
					return nil, ErrDuplicateWindowID
				}
				ds.Windows[win.ID] = Window{X: win.X, Y: win.Y, Width: win.Width, Height: win.Height}
			}

		case *PaletteDefinition:
			vid := PaletteVid{ID: d.ID, Version: d.Version}
			if _, exists := ds.Palettes[vid]; exists {
				return nil, ErrDuplicatePaletteVid
			}
			entries := make(map[uint8]PaletteEntry, len(d.Entries))
			for _, e := range d.Entries {
				entries[e.ID] = PaletteEntry{Y: e.Y, Cr: e.Cr, Cb: e.Cb, Alpha: e.Alpha}
			}
			ds.Palettes[vid] = Palette{Entries: entries}

		case *ObjectDefinition:
			vid, obj, err := assembler.accept(d)
			if err != nil {
				return nil, err
			}
			if obj != nil {
				if _, exists := ds.Objects[vid]; exists {
					return nil, ErrDuplicateObjectVid
				}
				ds.Objects[vid] = *obj
				cfg.logger.Debugf("pgs: assembled object %d.%d (%dx%d)", vid.ID, vid.Version, obj.Width, obj.Height)
			}

		case *EndSegment:
			if err := assembler.finish(); err != nil {
				return nil, err
			}
			sawEnd = true
		}
	}

	if !sawEnd {
		return nil, ErrMissingEndSegment
	}

	if ds.PaletteUpdateID != nil {
		found := false
		for vid := range ds.Palettes {
			if vid.ID == *ds.PaletteUpdateID {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrPaletteUpdateReferencesUnknownPalette
		}
	}

	if cfg.strictObjectBounds {
		if err := checkObjectBounds(ds); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// checkObjectBounds verifies that every composition object's crop
// rectangle falls within the decoded bounds of the object it references.
// A composition object's own on-screen position is not checked.
func checkObjectBounds(ds *DisplaySet) error {
	for cid, co := range ds.Composition.Objects {
		for vid, obj := range ds.Objects {
			if vid.ID != cid.ObjectID {
				continue
			}
			if co.Crop != nil {
				if uint32(co.Crop.X)+uint32(co.Crop.Width) > uint32(obj.Width) ||
					uint32(co.Crop.Y)+uint32(co.Crop.Height) > uint32(obj.Height) {
					return ErrCropOutOfBounds
				}
			}
		}
	}
	return nil
}
