// Package sheets declares the outbound spreadsheet ports the sync worker
// writes through.
package sheets

import "context"

// Row is one mirrored transaction: date, note, amount, category name.
type Row struct {
	Date     string
	Note     string
	Amount   float64
	Category string
}

// TransactionWriter appends one row to the mirror and returns a reference
// to where it landed.
type TransactionWriter interface {
	Append(ctx context.Context, row Row) (rowRef string, err error)
}
