package core

import "time"

const (
	dayLayout       = "2006-01-02"
	activityDays    = 7
	noCategoryLabel = "N/A"
)

// Totals sums a set of transactions by type.
type Totals struct {
	Income   Money `json:"income"`
	Expenses Money `json:"expenses"`
	Balance  Money `json:"balance"`
}

// DailyActivity is one point of the activity series.
type DailyActivity struct {
	Date     string `json:"date"` // YYYY-MM-DD, UTC
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"`
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name  string `json:"name"`
	Value Money  `json:"value"`
}

// Overview bundles the dashboard aggregations computed over one transaction list.
type Overview struct {
	Totals     Totals           `json:"totals"`
	Daily      []DailyActivity  `json:"daily"`
	ByCategory []CategoryAmount `json:"byCategory"`
}

func ComputeTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income = t.Income.Add(tx.Amount)
		case Expense:
			t.Expenses = t.Expenses.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}

// LastSevenDays returns the 7 UTC calendar days ending on now's day, oldest first.
func LastSevenDays(txs []Transaction, now time.Time) []DailyActivity {
	today := now.UTC()
	series := make([]DailyActivity, activityDays)
	index := make(map[string]int, activityDays)
	for i := 0; i < activityDays; i++ {
		day := today.AddDate(0, 0, i-(activityDays-1)).Format(dayLayout)
		series[i] = DailyActivity{Date: day}
		index[day] = i
	}

	for _, tx := range txs {
		i, ok := index[tx.Date.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		switch tx.Type {
		case Income:
			series[i].Income = series[i].Income.Add(tx.Amount)
		case Expense:
			series[i].Expenses = series[i].Expenses.Add(tx.Amount)
		}
	}
	return series
}

// ExpensesByCategory sums EXPENSE amounts per category name in first-seen order.
func ExpensesByCategory(txs []Transaction) []CategoryAmount {
	out := []CategoryAmount{}
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Type != Expense {
			continue
		}
		name := tx.CategoryName()
		if name == "" {
			name = noCategoryLabel
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryAmount{Name: name})
		}
		out[i].Value = out[i].Value.Add(tx.Amount)
	}
	return out
}

func Summarize(txs []Transaction, now time.Time) Overview {
	return Overview{
		Totals:     ComputeTotals(txs),
		Daily:      LastSevenDays(txs, now),
		ByCategory: ExpensesByCategory(txs),
	}
}

// DayString formats t as an ISO calendar date in UTC.
func DayString(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
