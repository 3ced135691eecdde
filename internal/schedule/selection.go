package schedule

import (
	"errors"
	"fmt"

	"github.com/codr1/Courtside/internal/conflicts"
)

type SelectionState int

const (
	StateIdle SelectionState = iota
	StateSelecting
	StateSelected
	StateSubmitting
)

func (s SelectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateSelected:
		return "selected"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("SelectionState(%d)", int(s))
	}
}

var ErrSelectionState = errors.New("selection is not in a state that allows this")

// Window is a finished selection: one court, one date, one contiguous run.
type Window struct {
	CourtID   string `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Selection tracks a drag across board cells:
// idle -> selecting -> selected -> submitting -> idle. Cancel returns to idle
// from any state.
type Selection struct {
	step    int
	state   SelectionState
	courtID string
	date    string
	slots   []string
	window  Window
}

func NewSelection(slotMinutes int) *Selection {
	return &Selection{step: slotMinutes}
}

func (s *Selection) State() SelectionState {
	return s.state
}

func (s *Selection) Window() Window {
	return s.window
}

// Begin starts a new drag. A finished but unsubmitted selection is discarded.
func (s *Selection) Begin(courtID, date, slot string) error {
	if s.state != StateIdle && s.state != StateSelected {
		return fmt.Errorf("begin while %s: %w", s.state, ErrSelectionState)
	}
	s.reset()
	s.state = StateSelecting
	s.courtID = courtID
	s.date = date
	s.slots = []string{slot}
	return nil
}

// Extend adds a slot to the drag. Slots from another court or day are refused
// without changing the selection.
func (s *Selection) Extend(courtID, date, slot string) error {
	if s.state != StateSelecting {
		return fmt.Errorf("extend while %s: %w", s.state, ErrSelectionState)
	}
	if courtID != s.courtID || date != s.date {
		return &conflicts.SelectionError{Reason: "a selection must stay on one court and day"}
	}
	for _, existing := range s.slots {
		if existing == slot {
			return nil
		}
	}
	s.slots = append(s.slots, slot)
	return nil
}

// Finish ends the drag. A non-contiguous selection is rejected and resets the
// machine to idle.
func (s *Selection) Finish() (Window, error) {
	if s.state != StateSelecting {
		return Window{}, fmt.Errorf("finish while %s: %w", s.state, ErrSelectionState)
	}
	start, end, err := conflicts.ValidateContiguous(s.slots, s.step)
	if err != nil {
		s.reset()
		return Window{}, err
	}
	s.window = Window{CourtID: s.courtID, Date: s.date, StartTime: start, EndTime: end}
	s.state = StateSelected
	return s.window, nil
}

func (s *Selection) Submit() (Window, error) {
	if s.state != StateSelected {
		return Window{}, fmt.Errorf("submit while %s: %w", s.state, ErrSelectionState)
	}
	s.state = StateSubmitting
	return s.window, nil
}

// Done is called once the submitted reservation has been stored or refused.
func (s *Selection) Done() {
	if s.state == StateSubmitting {
		s.reset()
	}
}

func (s *Selection) Cancel() {
	s.reset()
}

func (s *Selection) reset() {
	s.state = StateIdle
	s.courtID = ""
	s.date = ""
	s.slots = nil
	s.window = Window{}
}

// SelectWindow runs a complete drag over slots and returns the window.
func SelectWindow(courtID, date string, slots []string, slotMinutes int) (Window, error) {
	if len(slots) == 0 {
		return Window{}, &conflicts.SelectionError{Reason: "no slots selected"}
	}
	sel := NewSelection(slotMinutes)
	if err := sel.Begin(courtID, date, slots[0]); err != nil {
		return Window{}, err
	}
	for _, slot := range slots[1:] {
		if err := sel.Extend(courtID, date, slot); err != nil {
			return Window{}, err
		}
	}
	return sel.Finish()
}
