/*
NAME
  model.go

DESCRIPTION
  model.go defines the public PGS data model: the structured entities a
  display set is built from (component F). These are plain, comparable
  value types with no behavior beyond what the codec needs.

LICENSE
  See repository LICENSE.
*/

package pgs

import "sort"

// Vid is a versioned identifier: an id paired with a version number. It is
// the key shape for palettes (T = uint8) and objects (T = uint16).
type Vid[T uint8 | uint16] struct {
	ID      T
	Version uint8
}

// Less reports whether v sorts before o, ordering lexicographically by ID
// then Version.
func (v Vid[T]) Less(o Vid[T]) bool {
	if v.ID != o.ID {
		return v.ID < o.ID
	}
	return v.Version < o.Version
}

// PaletteVid identifies a palette by (id, version).
type PaletteVid = Vid[uint8]

// ObjectVid identifies an object by (id, version).
type ObjectVid = Vid[uint16]

// Cid is a compound identifier for a composition object: the object it
// places and the window it is placed within.
type Cid struct {
	ObjectID uint16
	WindowID uint8
}

// Less reports whether c sorts before o, ordering lexicographically by
// ObjectID then WindowID.
func (c Cid) Less(o Cid) bool {
	if c.ObjectID != o.ObjectID {
		return c.ObjectID < o.ObjectID
	}
	return c.WindowID < o.WindowID
}

// CompositionState is the role a composition plays within its epoch. The
// library round-trips this value verbatim; it never interprets epoch
// semantics itself (those belong to the caller).
type CompositionState uint8

// Composition state values.
const (
	StateNormal           CompositionState = 0x00
	StateAcquisitionPoint CompositionState = 0x40
	StateEpochStart       CompositionState = 0x80
)

func (s CompositionState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateAcquisitionPoint:
		return "acquisition-point"
	case StateEpochStart:
		return "epoch-start"
	default:
		return "unknown"
	}
}

// Crop restricts display of a composition object to a sub-rectangle of the
// source object, expressed relative to the object itself.
type Crop struct {
	X, Y          uint16
	Width, Height uint16
}

// CompositionObject places an object within a window for one display set.
type CompositionObject struct {
	X, Y   uint16
	Forced bool
	Crop   *Crop
}

// Composition describes how objects are placed within windows for a
// display set.
type Composition struct {
	Number  uint16
	State   CompositionState
	Objects map[Cid]CompositionObject
}

// Window is a rectangle on screen that objects may be composited into.
type Window struct {
	X, Y          uint16
	Width, Height uint16
}

// PaletteEntry is one entry of a palette: a BT.709-style limited-range
// luma/chroma/alpha tuple.
type PaletteEntry struct {
	Y, Cr, Cb, Alpha uint8
}

// Palette is a set of palette entries keyed by entry id.
type Palette struct {
	Entries map[uint8]PaletteEntry
}

// Object is a decoded bitmap: one slice of palette-index bytes per scan
// line. Nothing checks len(Lines) against Height or len(Lines[i]) against
// Width for an object read off the wire — a malformed-but-RLE-valid object
// is passed through as decoded. Callers should not assume the invariant
// holds; callers constructing an Object to encode are responsible for it
// themselves.
type Object struct {
	Width, Height uint16
	Lines         [][]byte
}

// DisplaySet is one atomic composition update: a composition plus the
// windows, palettes and objects it references.
type DisplaySet struct {
	PTS, DTS        uint32
	Width, Height   uint16
	FrameRate       uint8
	PaletteUpdateID *uint8
	Windows         map[uint8]Window
	Palettes        map[PaletteVid]Palette
	Objects         map[ObjectVid]Object
	Composition     Composition
}

// sortedU8Keys returns the keys of m in ascending order.
func sortedU8Keys[V any](m map[uint8]V) []uint8 {
	keys := make([]uint8, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// sortedVidKeys returns the keys of m in ascending (ID, Version) order.
func sortedVidKeys[T uint8 | uint16, V any](m map[Vid[T]]V) []Vid[T] {
	keys := make([]Vid[T], 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// sortedCidKeys returns the keys of m in ascending (ObjectID, WindowID)
// order.
func sortedCidKeys[V any](m map[Cid]V) []Cid {
	keys := make([]Cid, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
