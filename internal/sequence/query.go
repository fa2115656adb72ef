package sequence

import "fmt"

// Range is an inclusive [Low, High] filter on one scalar dimension. A nil
// *Range is unconstrained. A range with Low > High matches nothing.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// NewRange returns a pointer to the range [low, high].
func NewRange(low, high float64) *Range {
	return &Range{Low: low, High: high}
}

// Contains reports whether v lies within the range. A nil range contains
// every value.
func (r *Range) Contains(v float64) bool {
	if r == nil {
		return true
	}
	return r.Low <= v && v <= r.High
}

// Mirror negates both ends of the range, so [5, 20] becomes [-20, -5].
// A malformed range stays malformed.
func (r *Range) Mirror() *Range {
	if r == nil {
		return nil
	}
	return &Range{Low: -r.High, High: -r.Low}
}

func (r *Range) String() string {
	if r == nil {
		return "any"
	}
	return fmt.Sprintf("[%g, %g]", r.Low, r.High)
}

// Query selects sequences whose scalar attributes each fall within the
// corresponding range.
type Query struct {
	EntrySpeed     *Range
	EntrySlide     *Range
	ActionSpeed    *Range
	ActionSteering *Range
}

// Match reports whether s satisfies every dimension of q. An unconstrained
// slide range matches sequences that have no slide value; a constrained
// one never does.
func (q Query) Match(s Sequence) bool {
	if !q.EntrySpeed.Contains(s.EntrySpeed) {
		return false
	}
	if q.EntrySlide != nil {
		if s.EntrySlide == nil || !q.EntrySlide.Contains(*s.EntrySlide) {
			return false
		}
	}
	return q.ActionSpeed.Contains(s.ActionSpeed) && q.ActionSteering.Contains(s.ActionSteeringDegrees)
}

func (q Query) String() string {
	return fmt.Sprintf("entry_speed=%s entry_slide=%s action_speed=%s action_steering=%s",
		q.EntrySpeed, q.EntrySlide, q.ActionSpeed, q.ActionSteering)
}
