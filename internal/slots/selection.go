package slots

import (
	"sort"

	"github.com/m04kA/court-booking-service/pkg/types"
)

// Mode selects how clicks on the grid are interpreted
type Mode int

const (
	// ModeSelect builds a new booking or block: one gapless run of available slots
	ModeSelect Mode = iota
	// ModeUnblock picks existing blocks; a block is selected as a whole
	ModeUnblock
)

// Selection is the ephemeral set of slots a user is building on one grid.
//
// In ModeSelect it is always empty or a run grid[lo..hi] of available slots;
// it can grow or shrink only at its two ends. In ModeUnblock it is a set of
// block IDs, each standing for every slot of that block.
//
// Not safe for concurrent use.
type Selection struct {
	grid []Slot
	mode Mode

	lo, hi int
	groups map[int64]struct{}

	dragging bool
	anchor   int
}

// NewSelection starts an empty selection over a resolved grid
func NewSelection(grid []Slot, mode Mode) *Selection {
	s := &Selection{grid: grid, mode: mode}
	s.Clear()
	return s
}

func (s *Selection) Mode() Mode {
	return s.mode
}

// SetMode switches mode and clears the selection
func (s *Selection) SetMode(mode Mode) {
	s.mode = mode
	s.Clear()
}

// Clear empties the selection and ends any drag
func (s *Selection) Clear() {
	s.lo, s.hi = -1, -1
	s.groups = make(map[int64]struct{})
	s.dragging = false
	s.anchor = -1
}

func (s *Selection) IsEmpty() bool {
	if s.mode == ModeUnblock {
		return len(s.groups) == 0
	}
	return s.lo < 0
}

// Len is the number of selected slots
func (s *Selection) Len() int {
	return len(s.Slots())
}

// Contains reports whether the slot at index i is selected
func (s *Selection) Contains(i int) bool {
	if i < 0 || i >= len(s.grid) {
		return false
	}
	if s.mode == ModeUnblock {
		_, ok := s.groups[s.grid[i].BlockID]
		return ok && s.grid[i].IsBlocked()
	}
	return s.lo >= 0 && i >= s.lo && i <= s.hi
}

// Click applies a discrete click on slot i. Returns true if the selection changed.
func (s *Selection) Click(i int) bool {
	if i < 0 || i >= len(s.grid) {
		return false
	}
	if s.mode == ModeUnblock {
		return s.toggleGroup(i)
	}

	slot := s.grid[i]

	if s.lo < 0 {
		if !slot.IsAvailable() {
			return false
		}
		s.lo, s.hi = i, i
		return true
	}

	if i >= s.lo && i <= s.hi {
		switch {
		case i == s.lo && i == s.hi:
			s.lo, s.hi = -1, -1
		case i == s.lo:
			s.lo++
		case i == s.hi:
			s.hi--
		default:
			// Удаление из середины разорвало бы непрерывность
			return false
		}
		return true
	}

	if !slot.IsAvailable() {
		return false
	}
	switch i {
	case s.lo - 1:
		s.lo = i
	case s.hi + 1:
		s.hi = i
	default:
		return false
	}
	return true
}

func (s *Selection) toggleGroup(i int) bool {
	slot := s.grid[i]
	if !slot.IsBlocked() || slot.BlockID == 0 {
		return false
	}
	if _, ok := s.groups[slot.BlockID]; ok {
		delete(s.groups, slot.BlockID)
	} else {
		s.groups[slot.BlockID] = struct{}{}
	}
	return true
}

// BeginDrag anchors a drag gesture on slot i and restarts the run there.
// Only available slots can anchor a drag; unblock mode has no drag.
func (s *Selection) BeginDrag(i int) bool {
	if s.mode != ModeSelect || i < 0 || i >= len(s.grid) || !s.grid[i].IsAvailable() {
		return false
	}
	s.dragging = true
	s.anchor = i
	s.lo, s.hi = i, i
	return true
}

// DragOver recomputes the run as the span between the anchor and slot i.
// The span is committed only if every slot in it is available; otherwise the
// last valid run is kept.
func (s *Selection) DragOver(i int) bool {
	if !s.dragging || i < 0 || i >= len(s.grid) {
		return false
	}
	lo, hi := s.anchor, i
	if lo > hi {
		lo, hi = hi, lo
	}
	if !AllAvailable(s.grid, lo, hi) {
		return false
	}
	changed := lo != s.lo || hi != s.hi
	s.lo, s.hi = lo, hi
	return changed
}

// EndDrag finishes a drag (pointer released or left the grid) keeping the run
func (s *Selection) EndDrag() {
	s.dragging = false
	s.anchor = -1
}

func (s *Selection) Dragging() bool {
	return s.dragging
}

// Refresh swaps in a re-resolved grid. A run that now touches an unavailable
// slot is cleared; unblock groups whose block is gone or now covers other
// slots are dropped.
// Returns true if anything was removed from the selection.
func (s *Selection) Refresh(grid []Slot) bool {
	sameShape := len(grid) == len(s.grid)
	before := blockSpans(s.grid)
	s.grid = grid

	if s.mode == ModeUnblock {
		after := blockSpans(grid)
		removed := false
		for id := range s.groups {
			if span, ok := after[id]; !ok || !sameShape || span != before[id] {
				delete(s.groups, id)
				removed = true
			}
		}
		return removed
	}

	if s.lo < 0 {
		return false
	}
	if !sameShape || !AllAvailable(grid, s.lo, s.hi) {
		s.Clear()
		return true
	}
	return false
}

// blockSpan first and last grid index covered by a block
type blockSpan struct {
	lo, hi int
}

func blockSpans(grid []Slot) map[int64]blockSpan {
	spans := make(map[int64]blockSpan)
	for i, slot := range grid {
		if !slot.IsBlocked() {
			continue
		}
		span, ok := spans[slot.BlockID]
		if !ok {
			span.lo = i
		}
		span.hi = i
		spans[slot.BlockID] = span
	}
	return spans
}

// Slots returns the selected slots ordered by start time
func (s *Selection) Slots() []Slot {
	if s.mode == ModeUnblock {
		result := make([]Slot, 0)
		for i := range s.grid {
			if s.Contains(i) {
				result = append(result, s.grid[i])
			}
		}
		return result
	}
	if s.lo < 0 {
		return []Slot{}
	}
	result := make([]Slot, s.hi-s.lo+1)
	copy(result, s.grid[s.lo:s.hi+1])
	return result
}

// BlockIDs returns the distinct selected block IDs in ascending order
func (s *Selection) BlockIDs() []int64 {
	ids := make([]int64, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Summary values derived from a committed run
type Summary struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	SlotCount       int
	DurationMinutes int
	TotalPrice      int64
}

// Summary derives start, end, duration and price of the run.
// ok is false for an empty selection or in unblock mode.
func (s *Selection) Summary(slotDurationMinutes int, pricePerSlot int64) (Summary, bool) {
	if s.mode != ModeSelect || s.lo < 0 {
		return Summary{}, false
	}
	return Summarize(s.grid[s.lo:s.hi+1], slotDurationMinutes, pricePerSlot), true
}

// Summarize computes derived quantities for a run of slots ordered by start
func Summarize(run []Slot, slotDurationMinutes int, pricePerSlot int64) Summary {
	if len(run) == 0 {
		return Summary{}
	}
	last := run[len(run)-1]
	end := last.End
	if end.IsZero() {
		end, _ = last.Start.AddMinutes(slotDurationMinutes)
	}
	return Summary{
		StartTime:       run[0].Start,
		EndTime:         end,
		SlotCount:       len(run),
		DurationMinutes: len(run) * slotDurationMinutes,
		TotalPrice:      int64(len(run)) * pricePerSlot,
	}
}
