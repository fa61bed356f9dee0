// Package table implements the small columnar table the rating pipeline
// consumes and produces. Columns are typed slices keyed by name; all columns
// share the same length so feature output stays aligned row-for-row with the
// input.
package table

import (
	"fmt"
	"time"
)

// Table is an in-memory columnar table.
type Table struct {
	n       int
	strings map[string][]string
	floats  map[string][]float64
	times   map[string][]time.Time
	order   []string
}

// New creates an empty table with a fixed row count.
func New(rows int) *Table {
	return &Table{
		n:       rows,
		strings: make(map[string][]string),
		floats:  make(map[string][]float64),
		times:   make(map[string][]time.Time),
	}
}

// Len returns the row count.
func (t *Table) Len() int { return t.n }

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	if _, ok := t.strings[name]; ok {
		return true
	}
	if _, ok := t.floats[name]; ok {
		return true
	}
	_, ok := t.times[name]
	return ok
}

func (t *Table) checkAdd(name string, n int) error {
	if t.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if n != t.n {
		return fmt.Errorf("%w: column %q has %d rows, table has %d", ErrLengthMismatch, name, n, t.n)
	}
	return nil
}

// AddStrings adds a string column.
func (t *Table) AddStrings(name string, vals []string) error {
	if err := t.checkAdd(name, len(vals)); err != nil {
		return err
	}
	t.strings[name] = vals
	t.order = append(t.order, name)
	return nil
}

// AddFloats adds a float64 column.
func (t *Table) AddFloats(name string, vals []float64) error {
	if err := t.checkAdd(name, len(vals)); err != nil {
		return err
	}
	t.floats[name] = vals
	t.order = append(t.order, name)
	return nil
}

// AddTimes adds a time column.
func (t *Table) AddTimes(name string, vals []time.Time) error {
	if err := t.checkAdd(name, len(vals)); err != nil {
		return err
	}
	t.times[name] = vals
	t.order = append(t.order, name)
	return nil
}

// Strings returns a string column.
func (t *Table) Strings(name string) ([]string, error) {
	vals, ok := t.strings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return vals, nil
}

// Floats returns a float64 column.
func (t *Table) Floats(name string) ([]float64, error) {
	vals, ok := t.floats[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return vals, nil
}

// Times returns a time column.
func (t *Table) Times(name string) ([]time.Time, error) {
	vals, ok := t.times[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return vals, nil
}

// Clone returns a deep copy; columns added to the clone never touch the
// original.
func (t *Table) Clone() *Table {
	c := New(t.n)
	c.order = make([]string, len(t.order))
	copy(c.order, t.order)
	for name, vals := range t.strings {
		cp := make([]string, len(vals))
		copy(cp, vals)
		c.strings[name] = cp
	}
	for name, vals := range t.floats {
		cp := make([]float64, len(vals))
		copy(cp, vals)
		c.floats[name] = cp
	}
	for name, vals := range t.times {
		cp := make([]time.Time, len(vals))
		copy(cp, vals)
		c.times[name] = cp
	}
	return c
}
