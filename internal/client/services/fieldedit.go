package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docproc/internal/client/models"
)

type EditState int

const (
	EditViewing EditState = iota
	EditEditing
	EditSaving
)

func (s EditState) String() string {
	switch s {
	case EditViewing:
		return "viewing"
	case EditEditing:
		return "editing"
	case EditSaving:
		return "saving"
	}
	return fmt.Sprintf("EditState(%d)", int(s))
}

var ErrNotEditing = errors.New("field is not being edited")

// FieldSaver persists an extracted field. *DocumentStore implements it.
type FieldSaver interface {
	SaveField(ctx context.Context, fieldID int64, value string, validated bool) error
}

// FieldEdit is the view-local edit cycle of one extracted field:
// viewing -> editing -> saving -> viewing. A failed save returns to editing
// with the draft intact so it can be retried.
type FieldEdit struct {
	saver     FieldSaver
	committed models.ExtractedField
	value     string
	validated bool
	state     EditState
	err       error
}

func NewFieldEdit(saver FieldSaver, field models.ExtractedField) *FieldEdit {
	return &FieldEdit{
		saver:     saver,
		committed: field,
		value:     field.Value,
		validated: field.IsValidated,
	}
}

func (e *FieldEdit) State() EditState             { return e.state }
func (e *FieldEdit) Value() string                { return e.value }
func (e *FieldEdit) Validated() bool              { return e.validated }
func (e *FieldEdit) Err() error                   { return e.err }
func (e *FieldEdit) Field() models.ExtractedField { return e.committed }

// Begin starts editing from the committed values.
func (e *FieldEdit) Begin() {
	if e.state != EditViewing {
		return
	}
	e.value = e.committed.Value
	e.validated = e.committed.IsValidated
	e.err = nil
	e.state = EditEditing
}

func (e *FieldEdit) SetValue(v string) error {
	if e.state != EditEditing {
		return ErrNotEditing
	}
	e.value = v
	return nil
}

func (e *FieldEdit) SetValidated(v bool) error {
	if e.state != EditEditing {
		return ErrNotEditing
	}
	e.validated = v
	return nil
}

// Save submits the draft. On success the draft becomes the committed value;
// on failure the edit stays open with Err set.
func (e *FieldEdit) Save(ctx context.Context) error {
	if e.state != EditEditing {
		return ErrNotEditing
	}

	e.state = EditSaving
	if err := e.saver.SaveField(ctx, e.committed.ID, e.value, e.validated); err != nil {
		e.err = err
		e.state = EditEditing
		return err
	}

	e.committed.Value = e.value
	e.committed.IsValidated = e.validated
	e.err = nil
	e.state = EditViewing
	return nil
}

// Cancel discards the draft and restores the committed values.
func (e *FieldEdit) Cancel() {
	e.value = e.committed.Value
	e.validated = e.committed.IsValidated
	e.err = nil
	e.state = EditViewing
}
