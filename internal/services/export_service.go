package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"ledger/internal/core"
)

// ExportHeader is the first row of every export.
var ExportHeader = []string{"Date", "Type", "Category", "Amount", "Description", "User"}

const utf8BOM = "\uFEFF"

type ExportService struct {
	transactions TransactionStore
}

func NewExportService(transactions TransactionStore) *ExportService {
	return &ExportService{transactions: transactions}
}

// Records returns the header followed by one row per visible transaction, newest first.
func (s *ExportService) Records(ctx context.Context, p core.Principal) ([][]string, error) {
	txs, err := s.transactions.List(ctx, visibility(p))
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}

	records := make([][]string, 0, len(txs)+1)
	records = append(records, ExportHeader)
	for _, t := range txs {
		records = append(records, exportRow(t))
	}
	return records, nil
}

func exportRow(t core.Transaction) []string {
	category := t.CategoryName()
	if category == "" {
		category = "N/A"
	}
	user := t.OwnerEmail()
	if user == "" {
		user = "Self"
	}
	return []string{
		core.DayString(t.Date),
		string(t.Type),
		category,
		t.Amount.String(),
		t.Description,
		user,
	}
}

// WriteCSV writes the BOM-prefixed CSV export to w and returns the number of data rows.
func (s *ExportService) WriteCSV(ctx context.Context, p core.Principal, w io.Writer) (int, error) {
	records, err := s.Records(ctx, p)
	if err != nil {
		return 0, err
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(records) - 1, nil
}
