package core

import "sort"

// Totals holds the monthly rollup shown on the balance card. Income sums
// income amounts as stored, expenses sum expense magnitudes, transfers
// count toward neither.
type Totals struct {
	Income   Money
	Expenses Money
	Net      Money
}

// CategoryTotal is a category's accumulated magnitude. Ordering carries
// meaning: see CategoryTotals.
type CategoryTotal struct {
	Category string
	Amount   Money
}

// DateGroup is the set of transactions sharing one display-date label, in
// input order.
type DateGroup struct {
	Label        string
	Transactions []Transaction
}

// DayActivity is one bar of the weekly chart.
type DayActivity struct {
	Label    string
	Income   Money
	Expenses Money
}

// CalculateTotals derives income, expense and net totals from the
// transaction list. Stored signs on expenses are irrelevant; magnitudes
// are summed.
func CalculateTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income.Cents += tx.Amount.Cents
		case Expense:
			t.Expenses.Cents += tx.Amount.Abs().Cents
		}
	}
	t.Net.Cents = t.Income.Cents - t.Expenses.Cents
	return t
}

// CategoryTotals rolls every transaction's magnitude into its category,
// income included. Entries appear in first-occurrence order of the
// category in the input, which is what breaks ties in TopCategories.
func CategoryTotals(txs []Transaction) []CategoryTotal {
	index := make(map[string]int, len(txs))
	var totals []CategoryTotal
	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok {
			i = len(totals)
			index[tx.Category] = i
			totals = append(totals, CategoryTotal{Category: tx.Category})
		}
		totals[i].Amount.Cents += tx.Amount.Abs().Cents
	}
	return totals
}

// TopCategories returns at most n categories sorted by amount descending.
// The sort is stable, so equal amounts keep their first-occurrence order.
func TopCategories(totals []CategoryTotal, n int) []CategoryTotal {
	sorted := make([]CategoryTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.Cents > sorted[j].Amount.Cents
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// GroupByDate partitions transactions by their display-date label. Groups
// appear in first-occurrence order and every transaction lands in exactly
// one group, keeping its relative position.
func GroupByDate(txs []Transaction) []DateGroup {
	index := make(map[string]int, len(txs))
	var groups []DateGroup
	for _, tx := range txs {
		label := FormatDate(tx.Date)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DateGroup{Label: label})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}
	return groups
}

// WeeklySeries buckets income and expense sums per day for the 7 calendar
// days ending at now, oldest first. Matching is by exact calendar day, so
// the result always has 7 entries even for empty input.
func WeeklySeries(txs []Transaction, now Date) []DayActivity {
	series := make([]DayActivity, 7)
	for i := range series {
		day := now.AddDays(i - 6)
		entry := DayActivity{Label: day.Format("Mon")}
		for _, tx := range txs {
			if !tx.Date.Equal(day) {
				continue
			}
			switch tx.Type {
			case Income:
				entry.Income.Cents += tx.Amount.Cents
			case Expense:
				entry.Expenses.Cents += tx.Amount.Abs().Cents
			}
		}
		series[i] = entry
	}
	return series
}
