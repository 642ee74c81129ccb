/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the two layered error taxonomies of §7: segment-layer
  conditions (framing, flags, declared lengths) and display-set-layer
  conditions (missing/duplicate/misplaced segments, cross-segment
  consistency, malformed object sequences). Display-set-layer functions
  return segment-layer errors unchanged and wrap rle-layer errors with
  github.com/pkg/errors, so the original sentinel survives under
  errors.Cause in both cases.

LICENSE
  See repository LICENSE.
*/

package pgs

import "github.com/pkg/errors"

// Segment-layer errors (component C, §4.C).
var (
	ErrUnrecognizedMagicNumber       = errors.New("pgs: unrecognized magic number")
	ErrUnrecognizedKind              = errors.New("pgs: unrecognized segment kind")
	ErrUnrecognizedCompositionState  = errors.New("pgs: unrecognized composition state")
	ErrUnrecognizedPaletteUpdateFlag = errors.New("pgs: unrecognized palette update flag")
	ErrUnrecognizedObjectSequence    = errors.New("pgs: unrecognized object sequence flag")
	ErrInvalidObjectDataLength       = errors.New("pgs: declared object data length disagrees with segment size")
	ErrTooManyCompositionObjects     = errors.New("pgs: more than 255 composition objects")
	ErrTooManyWindowDefinitions      = errors.New("pgs: more than 255 window definitions")
	ErrObjectDataTooLarge            = errors.New("pgs: object data exceeds 16,777,211 bytes")
)

// Display-set-layer errors (component E, §4.E).
var (
	ErrNoSegments                            = errors.New("pgs: empty segment list")
	ErrMissingPresentationComposition        = errors.New("pgs: first segment is not a presentation composition segment")
	ErrUnexpectedPresentationComposition     = errors.New("pgs: unexpected presentation composition segment")
	ErrInconsistentPts                       = errors.New("pgs: segment pts inconsistent with composition segment")
	ErrInconsistentDts                       = errors.New("pgs: segment dts inconsistent with composition segment")
	ErrDuplicateWindowID                     = errors.New("pgs: duplicate window id")
	ErrDuplicatePaletteVid                   = errors.New("pgs: duplicate palette (id, version)")
	ErrDuplicateObjectVid                    = errors.New("pgs: duplicate object (id, version)")
	ErrSegmentAfterEnd                       = errors.New("pgs: segment arrived after end segment")
	ErrMissingEndSegment                     = errors.New("pgs: stream ended without an end segment")
	ErrPaletteUpdateReferencesUnknownPalette = errors.New("pgs: palette update id references no palette in this display set")
	ErrIncompleteObjectSequence              = errors.New("pgs: object fragment sequence incomplete at end segment")
	ErrInvalidObjectSequence                 = errors.New("pgs: invalid object fragment sequence transition")
	ErrInconsistentObjectID                  = errors.New("pgs: object fragments disagree on object id")
	ErrInconsistentObjectVersion             = errors.New("pgs: object fragments disagree on object version")

	// ErrCropOutOfBounds is returned only when WithStrictObjectBounds is
	// set: a composition object's crop rectangle extends past the decoded
	// bounds of the object it references.
	ErrCropOutOfBounds = errors.New("pgs: crop rectangle exceeds object bounds")
)
