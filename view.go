package pension

import "fmt"

// DefaultWindow is the number of rows a pass reads from the store.
const DefaultWindow = 15

// View is a read only window over the most recent rows of a ledger, oldest
// first. It locates the last recorded row and the blank slots after it.
type View struct {
	slots []Slot
	last  int
}

// NewView builds a View from slots ordered oldest first.
func NewView(slots []Slot) (*View, error) {
	last := -1
	for i, s := range slots {
		if !s.Row.IsBlank() {
			last = i
		}
	}
	if last < 0 {
		return nil, ErrMissingLastRecord
	}
	return &View{slots: slots, last: last}, nil
}

// Len returns the window size.
func (v *View) Len() int { return len(v.slots) }

// Slots returns the window content, oldest first.
func (v *View) Slots() []Slot { return v.slots }

// LastIndex returns the position in the window of the last recorded row.
func (v *View) LastIndex() int { return v.last }

// Last returns the last recorded slot.
func (v *View) Last() Slot { return v.slots[v.last] }

// Blank returns the k-th (0 based) slot following the last recorded row.
func (v *View) Blank(k int) (Slot, error) {
	i := v.last + 1 + k
	if i >= len(v.slots) {
		return Slot{}, fmt.Errorf("need %d blank slot(s) after row %d: %w", k+1, v.Last().Index, ErrNoCapacity)
	}
	s := v.slots[i]
	if !s.Row.IsBlank() {
		// cannot happen with NewView, last is the last non blank row.
		return Slot{}, fmt.Errorf("slot %d is not blank: %w", s.Index, ErrNoCapacity)
	}
	return s, nil
}

// Recorded returns the dated rows of the window, oldest first.
func (v *View) Recorded() []LedgerRow {
	rows := make([]LedgerRow, 0, len(v.slots))
	for _, s := range v.slots {
		if !s.Row.IsBlank() {
			rows = append(rows, s.Row)
		}
	}
	return rows
}
