package pension

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore is a Store backed by a JSONL file, one recorded row per line.
//
// Slots are line indexes. The window always ends with two blank slots past
// the last line, a file ledger grows on demand.
type FileStore struct {
	Path string
}

func (s *FileStore) load() ([]LedgerRow, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := DecodeRows(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger file %q: %w", s.Path, err)
	}
	return rows, nil
}

// Window implements Store.
func (s *FileStore) Window(_ context.Context, size int) ([]Slot, error) {
	rows, err := s.load()
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, len(rows))
	for i, row := range rows {
		slots[i] = Slot{Index: i, Row: row}
	}
	return TailWindow(slots, size), nil
}

// TailWindow is the window of a store that grows on demand: the last
// recorded slots, oldest first, followed by two blank slots indexed after
// the last one. The window holds size slots at most, and at least the last
// recorded one.
func TailWindow(recorded []Slot, size int) []Slot {
	const blanks = 2
	keep := size - blanks
	if keep < 1 {
		keep = 1
	}
	if len(recorded) > keep {
		recorded = recorded[len(recorded)-keep:]
	}
	next := 0
	if len(recorded) > 0 {
		next = recorded[len(recorded)-1].Index + 1
	}
	slots := make([]Slot, 0, len(recorded)+blanks)
	slots = append(slots, recorded...)
	for i := 0; i < blanks; i++ {
		slots = append(slots, Slot{Index: next + i})
	}
	return slots
}

// Write implements Store. The file is replaced atomically.
func (s *FileStore) Write(_ context.Context, writes []Write) error {
	rows, err := s.load()
	if err != nil {
		return err
	}
	for _, w := range writes {
		switch {
		case w.Index < len(rows):
			rows[w.Index] = w.Row
		case w.Index == len(rows):
			rows = append(rows, w.Row)
		default:
			return fmt.Errorf("cannot write slot %d past the end of %q (%d rows)", w.Index, s.Path, len(rows))
		}
	}
	return s.save(rows)
}

func (s *FileStore) save(rows []LedgerRow) error {
	dir := filepath.Dir(s.Path)
	f, err := os.CreateTemp(dir, ".ledger-*.jsonl")
	if err != nil {
		return fmt.Errorf("cannot create temporary ledger file: %w", err)
	}
	defer os.Remove(f.Name()) // no-op once renamed
	if err := EncodeRows(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), s.Path); err != nil {
		return fmt.Errorf("cannot replace ledger file %q: %w", s.Path, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
