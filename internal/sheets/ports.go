// Package sheets defines the spreadsheet mirror the worker writes the export rows to.
package sheets

import "context"

// Mirror holds a copy of the export table.
type Mirror interface {
	// Replace overwrites the mirrored table with records (header first).
	Replace(ctx context.Context, records [][]string) error
}

// Reader returns what the mirror currently holds.
type Reader interface {
	Rows(ctx context.Context) ([][]string, error)
}
