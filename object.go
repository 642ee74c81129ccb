/*
NAME
  object.go

DESCRIPTION
  object.go implements the object-reassembly state machine (component D):
  folding a run of ODS segments - a lone Single, or an Initial followed by
  zero or more Middle fragments and a closing Final - into one decoded
  Object. Only one fragment chain can be in flight at a time within a
  display set; the transition table below is exactly what §4.D specifies.

LICENSE
  See repository LICENSE.
*/

package pgs

import (
	"github.com/pkg/errors"

	"github.com/go-pgs/pgs/rle"
)

// objectAssembler accumulates one in-progress split-object fragment chain.
type objectAssembler struct {
	inProgress bool
	id         uint16
	version    uint8
	width      uint16
	height     uint16
	data       []byte
}

// accept folds one ODS segment into the assembler. It returns a non-nil
// vid and Object when ods completes a chain (Single, or the Final closing
// an Initial/Middle run); otherwise it returns a zero vid and a nil
// Object, meaning more fragments are expected.
func (a *objectAssembler) accept(ods *ObjectDefinition) (ObjectVid, *Object, error) {
	switch ods.Sequence {
	case SequenceSingle:
		if a.inProgress {
			return ObjectVid{}, nil, ErrInvalidObjectSequence
		}
		obj, err := decodeObject(ods.Width, ods.Height, ods.Data)
		if err != nil {
			return ObjectVid{}, nil, err
		}
		return ObjectVid{ID: ods.ID, Version: ods.Version}, obj, nil

	case SequenceInitial:
		if a.inProgress {
			return ObjectVid{}, nil, ErrInvalidObjectSequence
		}
		a.inProgress = true
		a.id = ods.ID
		a.version = ods.Version
		a.width = ods.Width
		a.height = ods.Height
		a.data = append([]byte(nil), ods.Data...)
		return ObjectVid{}, nil, nil

	case SequenceMiddle:
		if !a.inProgress {
			return ObjectVid{}, nil, ErrInvalidObjectSequence
		}
		if err := a.checkVid(ods); err != nil {
			return ObjectVid{}, nil, err
		}
		a.data = append(a.data, ods.Data...)
		return ObjectVid{}, nil, nil

	case SequenceFinal:
		if !a.inProgress {
			return ObjectVid{}, nil, ErrInvalidObjectSequence
		}
		if err := a.checkVid(ods); err != nil {
			return ObjectVid{}, nil, err
		}
		data := append(a.data, ods.Data...)
		vid := ObjectVid{ID: a.id, Version: a.version}
		width, height := a.width, a.height
		a.reset()

		obj, err := decodeObject(width, height, data)
		if err != nil {
			return ObjectVid{}, nil, err
		}
		return vid, obj, nil
	}

	return ObjectVid{}, nil, ErrUnrecognizedObjectSequence
}

// checkVid verifies that a Middle or Final fragment names the same
// object id and version as the Initial fragment that opened the chain.
func (a *objectAssembler) checkVid(ods *ObjectDefinition) error {
	if ods.ID != a.id {
		return ErrInconsistentObjectID
	}
	if ods.Version != a.version {
		return ErrInconsistentObjectVersion
	}
	return nil
}

func (a *objectAssembler) reset() {
	a.inProgress = false
	a.id, a.version, a.width, a.height = 0, 0, 0, 0
	a.data = nil
}

// finish reports whether a fragment chain was left incomplete when the
// display set ended.
func (a *objectAssembler) finish() error {
	if a.inProgress {
		return ErrIncompleteObjectSequence
	}
	return nil
}

func decodeObject(width, height uint16, data []byte) (*Object, error) {
	lines, err := rle.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "object data")
	}
	return &Object{Width: width, Height: height, Lines: lines}, nil
}
