package presenter

import (
	"context"
	"errors"
	"fmt"
)

// DialogSpec describes the reminder window.
type DialogSpec struct {
	Title    string
	Message  string
	FontSize int
	Width    int
}

// Dialog opens modal reminder windows.
type Dialog interface {
	Open(spec DialogSpec) (DialogHandle, error)
}

// DialogHandle is one opened window.
type DialogHandle interface {
	// Wait blocks until the user dismisses the window or ctx ends.
	Wait(ctx context.Context) error
	Visible() bool
	// Close disposes the window, dismissing it if still visible.
	Close() error
}

// Window keeps at most one dialog alive. A request while the dialog is
// visible is dropped; a dismissed dialog is disposed before the next opens.
type Window struct {
	dialog  Dialog
	current DialogHandle
}

// NewWindow creates an empty window slot.
func NewWindow(dialog Dialog) *Window {
	return &Window{dialog: dialog}
}

// Show opens a dialog and blocks until it is dismissed. It returns false
// without error when a dialog is already visible, and false with the error
// when the dialog could not be displayed. A dialog cut short by ctx still
// counts as shown.
func (w *Window) Show(ctx context.Context, spec DialogSpec) (bool, error) {
	if w.current != nil {
		if w.current.Visible() {
			return false, nil
		}
		_ = w.current.Close()
		w.current = nil
	}

	h, err := w.dialog.Open(spec)
	if err != nil {
		return false, fmt.Errorf("failed to open dialog: %w", err)
	}
	w.current = h

	if err := h.Wait(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return true, err
		}
		return false, fmt.Errorf("waiting for dialog: %w", err)
	}
	return true, nil
}

// Close disposes the current dialog, if any.
func (w *Window) Close() error {
	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}
