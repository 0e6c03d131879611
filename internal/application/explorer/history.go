package explorer

import (
	"github.com/snapview/memsnap/internal/core/model"
)

// HistoryStack records every view state the user reaches and supports
// linear undo/redo. Taking a new action while the cursor is somewhere in
// the middle discards the redo branch before appending.
// Invariant: -1 <= cursor < len(states); cursor is -1 only when empty.
type HistoryStack struct {
	states []model.ViewState
	cursor int
}

// NewHistoryStack creates an empty history.
func NewHistoryStack() *HistoryStack {
	return &HistoryStack{cursor: -1}
}

// Append records a new state, truncating any redo branch first.
func (h *HistoryStack) Append(state model.ViewState) {
	if h.cursor != len(h.states)-1 {
		h.states = h.states[:h.cursor+1]
	}
	h.states = append(h.states, state)
	h.cursor++
}

// GoPrevious moves the cursor back and returns the state to replay.
// At the start of history it is a silent no-op.
func (h *HistoryStack) GoPrevious() (model.ViewState, bool) {
	if h.cursor <= 0 {
		return model.ViewState{}, false
	}
	h.cursor--
	return h.states[h.cursor], true
}

// GoNext moves the cursor forward and returns the state to replay.
// At the end of history it is a silent no-op.
func (h *HistoryStack) GoNext() (model.ViewState, bool) {
	if h.cursor >= len(h.states)-1 {
		return model.ViewState{}, false
	}
	h.cursor++
	return h.states[h.cursor], true
}

// Current returns the state under the cursor.
func (h *HistoryStack) Current() (model.ViewState, bool) {
	if h.cursor < 0 {
		return model.ViewState{}, false
	}
	return h.states[h.cursor], true
}

// Clear resets the history to empty.
func (h *HistoryStack) Clear() {
	h.states = nil
	h.cursor = -1
}

// Len returns the number of recorded states.
func (h *HistoryStack) Len() int {
	return len(h.states)
}

// Cursor returns the current cursor position, -1 when empty.
func (h *HistoryStack) Cursor() int {
	return h.cursor
}
