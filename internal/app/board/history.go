package board

import (
	"fmt"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// History keeps unbounded undo and redo stacks of board snapshots.
//
// Every user action that is not itself undo or redo must checkpoint once,
// before it mutates. Apply does both, and rolls the checkpoint back if the
// mutation fails.
type History struct {
	engine *Engine
	undo   []domain.BoardSnapshot
	redo   []domain.BoardSnapshot
}

// NewHistory returns empty history over engine.
func NewHistory(engine *Engine) *History {
	return &History{engine: engine}
}

// Snapshot returns the live board.
func (h *History) Snapshot() domain.BoardSnapshot {
	return h.engine.Snapshot()
}

// Layout returns the display state of the live board.
func (h *History) Layout() Layout {
	return h.engine.Layout()
}

// RecordCheckpoint pushes the live board onto the undo stack and clears redo.
func (h *History) RecordCheckpoint() {
	h.undo = append(h.undo, h.engine.Snapshot())
	h.redo = nil
}

// Undo restores the most recent checkpoint, saving the live board for Redo.
// It reports false, changing nothing, when there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}

	h.redo = append(h.redo, h.engine.Snapshot())
	h.engine.Restore(pop(&h.undo))

	return true
}

// Redo reapplies the most recently undone board.
// It reports false, changing nothing, when there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}

	h.undo = append(h.undo, h.engine.Snapshot())
	h.engine.Restore(pop(&h.redo))

	return true
}

// CanUndo reports whether Undo would change the board.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would change the board.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Depths returns the sizes of the undo and redo stacks.
func (h *History) Depths() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Apply checkpoints and then runs fn against the engine as one undoable
// action. If fn fails the board, the undo stack and the redo stack are put
// back exactly as they were and the error is returned wrapped with name.
func (h *History) Apply(name string, fn func(*Engine) error) error {
	before := h.engine.Snapshot()
	redo := h.redo

	h.RecordCheckpoint()

	if err := fn(h.engine); err != nil {
		h.undo = h.undo[:len(h.undo)-1]
		h.redo = redo
		h.engine.Restore(before)

		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

func pop(stack *[]domain.BoardSnapshot) domain.BoardSnapshot {
	s := *stack
	top := s[len(s)-1]
	*stack = s[:len(s)-1]

	return top
}
