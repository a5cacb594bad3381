// Package memory is an in-memory TransactionWriter used in tests and when
// no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"buste/internal/sheets"
)

type Writer struct {
	mu   sync.Mutex
	rows []sheets.Row
}

var _ sheets.TransactionWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Append(_ context.Context, row sheets.Row) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, row)
	return fmt.Sprintf("row-%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []sheets.Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]sheets.Row, len(w.rows))
	copy(out, w.rows)
	return out
}
