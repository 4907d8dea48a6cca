// Package sheets stores a pension ledger in a Google Sheet.
//
// The first row of the sheet holds the column names, each following row is a
// ledger row. Columns are found by name, unknown columns are left untouched.
package sheets

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/pension"
	"github.com/etnz/pension/date"
)

// Column names.
const (
	ColTime          = "time"
	ColDate          = "date"
	ColValue         = "value"
	ColChange        = "change"
	ColPayment       = "payment"
	ColTotalPayments = "total payments"
	ColTotalGain     = "total gain"
	ColRateOfReturn  = "rate of return"
)

var knownColumns = []string{ColTime, ColDate, ColValue, ColChange, ColPayment, ColTotalPayments, ColTotalGain, ColRateOfReturn}

// Layout tells where new rows go.
type Layout int

const (
	// OldestFirst sheets grow downward, new rows are appended below the last one.
	OldestFirst Layout = iota
	// NewestFirst sheets keep the most recent row on top: blank rows are
	// provisioned above the last recorded row and filled upward.
	NewestFirst
)

// ParseLayout parses "oldest_first" or "newest_first".
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "oldest_first", "":
		return OldestFirst, nil
	case "newest_first":
		return NewestFirst, nil
	default:
		return 0, fmt.Errorf("unknown sheet layout %q, want oldest_first or newest_first", s)
	}
}

// cell is a single sheet cell, 1-based row, 0-based column.
type cell struct {
	Row, Col int
	Value    any
}

// table is the part of the Sheets API the store needs.
type table interface {
	// Rows returns the values of rows from to to (1-based, inclusive), to <= 0 means up to the end.
	Rows(ctx context.Context, from, to int) ([][]any, error)
	// Set writes the cells in a single batch.
	Set(ctx context.Context, cells []cell) error
}

// Store is a pension.Store over a sheet. Slots are sheet row numbers.
type Store struct {
	Layout Layout

	t    table
	cols map[string]int // column name -> column index
}

var _ pension.Store = (*Store)(nil)

func (s *Store) columns(ctx context.Context) (map[string]int, error) {
	if s.cols != nil {
		return s.cols, nil
	}
	header, err := s.t.Rows(ctx, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("sheet has no header row")
	}
	cols := make(map[string]int)
	for i, v := range header[0] {
		name := strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
		if slices.Contains(knownColumns, name) {
			cols[name] = i
		}
	}
	for _, required := range []string{ColDate, ColValue} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("sheet header has no %q column", required)
		}
	}
	s.cols = cols
	return cols, nil
}

// Window implements pension.Store.
func (s *Store) Window(ctx context.Context, size int) ([]pension.Slot, error) {
	cols, err := s.columns(ctx)
	if err != nil {
		return nil, err
	}

	if s.Layout == NewestFirst {
		values, err := s.t.Rows(ctx, 2, size+1)
		if err != nil {
			return nil, err
		}
		slots := make([]pension.Slot, size)
		for i := range slots {
			// oldest first: the bottom of the window comes first.
			row := size + 1 - i
			var rowValues []any
			if j := row - 2; j < len(values) {
				rowValues = values[j]
			}
			r, err := parseRow(rowValues, cols)
			if err != nil {
				return nil, fmt.Errorf("sheet row %d: %w", row, err)
			}
			slots[i] = pension.Slot{Index: row, Row: r}
		}
		return slots, nil
	}

	values, err := s.t.Rows(ctx, 2, 0)
	if err != nil {
		return nil, err
	}
	var recorded []pension.Slot
	for j, rowValues := range values {
		r, err := parseRow(rowValues, cols)
		if err != nil {
			return nil, fmt.Errorf("sheet row %d: %w", j+2, err)
		}
		if !r.IsBlank() {
			recorded = append(recorded, pension.Slot{Index: j + 2, Row: r})
		}
	}
	if len(recorded) == 0 {
		// blank slots start right below the header.
		return []pension.Slot{{Index: 2}, {Index: 3}}, nil
	}
	return pension.TailWindow(recorded, size), nil
}

// Write implements pension.Store. Only the known columns are written.
func (s *Store) Write(ctx context.Context, writes []pension.Write) error {
	cols, err := s.columns(ctx)
	if err != nil {
		return err
	}
	var cells []cell
	for _, w := range writes {
		if w.Index < 2 {
			return fmt.Errorf("cannot write the header row (slot %d)", w.Index)
		}
		for name, v := range formatRow(w.Row) {
			if col, ok := cols[name]; ok {
				cells = append(cells, cell{Row: w.Index, Col: col, Value: v})
			}
		}
	}
	// stable order for the batch.
	slices.SortFunc(cells, func(a, b cell) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	return s.t.Set(ctx, cells)
}

// parseRow reads a sheet row. A row without date is a blank slot.
func parseRow(values []any, cols map[string]int) (pension.LedgerRow, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(values) || values[i] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(values[i]))
	}

	var r pension.LedgerRow
	r.RateOfReturn = pension.UndefinedRate
	text := get(ColDate)
	if text == "" {
		return r, nil
	}
	var err error
	if r.Date, err = date.Parse(text); err != nil {
		return r, &pension.ParseError{Field: "date", Text: text, Err: err}
	}
	r.Time = get(ColTime)
	for _, f := range []struct {
		name string
		dst  *pension.Amount
	}{
		{ColValue, &r.Value},
		{ColChange, &r.Change},
		{ColTotalPayments, &r.TotalContributions},
		{ColTotalGain, &r.TotalGain},
	} {
		if text := get(f.name); text != "" {
			if *f.dst, err = pension.ParseAmount(text); err != nil {
				return r, err
			}
		}
	}
	switch strings.ToLower(get(ColPayment)) {
	case "true", "yes", "1":
		r.IsPayment = true
	}
	if r.RateOfReturn, err = pension.ParseRate(get(ColRateOfReturn)); err != nil {
		return r, err
	}
	return r, nil
}

// formatRow returns the cell values of r by column name.
func formatRow(r pension.LedgerRow) map[string]any {
	var rate any = ""
	if r.RateOfReturn.IsDefined() {
		rate = float64(r.RateOfReturn)
	}
	var payment any = ""
	if r.IsPayment {
		payment = true
	}
	return map[string]any{
		ColTime:          r.Time,
		ColDate:          r.Date.String(),
		ColValue:         r.Value.Plain(),
		ColChange:        r.Change.Plain(),
		ColPayment:       payment,
		ColTotalPayments: r.TotalContributions.Plain(),
		ColTotalGain:     r.TotalGain.Plain(),
		ColRateOfReturn:  rate,
	}
}
