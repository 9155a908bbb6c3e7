// Package report derives view state from flat transaction lists.
//
// Every function here is pure: no I/O, no shared state, deterministic for a
// given input. Callers re-derive on each relevant state change instead of
// maintaining incremental indices, so inputs must be treated as snapshots.
package report

import (
	"sort"
	"time"

	"paire/internal/core"
)

// Aggregate computes the full dashboard summary for a reporting window.
//
// The window only bounds the average-daily-spending figure; totals and the
// three series cover every transaction in the input. Callers that want a
// windowed view filter first (see Query).
func Aggregate(txs []core.Transaction, window core.Window) core.Summary {
	s := core.Summary{
		CategoryBreakdown:  []core.CategoryBucket{},
		IncomeExpenseTrend: []core.TrendPoint{},
		MonthlyComparison:  []core.MonthSummary{},
	}

	byCategory := make(map[string]int64)
	byDay := make(map[string]*core.TrendPoint)
	type monthKey struct {
		year  int
		month time.Month
	}
	byMonth := make(map[monthKey]*core.MonthSummary)

	for _, tx := range txs {
		amount := tx.Amount
		if amount.Cents < 0 {
			amount.Cents = 0
		}
		category := tx.Category
		if category == "" {
			category = core.DefaultCategory
		}

		if tx.Type.IsExpense() {
			s.TotalExpenses = s.TotalExpenses.Add(amount)
			byCategory[category] += amount.Cents
		} else {
			s.TotalIncome = s.TotalIncome.Add(amount)
		}

		dayKey := tx.Date.Key()
		point, ok := byDay[dayKey]
		if !ok {
			point = &core.TrendPoint{Date: core.NewDate(tx.Date.Year(), int(tx.Date.Month()), tx.Date.Day())}
			byDay[dayKey] = point
		}
		if tx.Type.IsExpense() {
			point.Expenses = point.Expenses.Add(amount)
		} else {
			point.Income = point.Income.Add(amount)
		}

		mk := monthKey{year: tx.Date.Year(), month: tx.Date.Month()}
		ms, ok := byMonth[mk]
		if !ok {
			ms = &core.MonthSummary{Month: mk.month.String(), Year: mk.year}
			byMonth[mk] = ms
		}
		if tx.Type.IsExpense() {
			ms.Expenses = ms.Expenses.Add(amount)
		} else {
			ms.Income = ms.Income.Add(amount)
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	if s.TotalExpenses.Cents > 0 {
		s.AverageDailySpending = s.TotalExpenses.DivDays(window.Days())
	}

	for category, cents := range byCategory {
		bucket := core.CategoryBucket{Category: category, Amount: core.Money{Cents: cents}}
		if s.TotalExpenses.Cents > 0 {
			bucket.Percentage = float64(cents) / float64(s.TotalExpenses.Cents) * 100
		}
		s.CategoryBreakdown = append(s.CategoryBreakdown, bucket)
	}
	sort.Slice(s.CategoryBreakdown, func(i, j int) bool {
		a, b := s.CategoryBreakdown[i], s.CategoryBreakdown[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Category < b.Category
	})

	for _, point := range byDay {
		s.IncomeExpenseTrend = append(s.IncomeExpenseTrend, *point)
	}
	sort.Slice(s.IncomeExpenseTrend, func(i, j int) bool {
		return s.IncomeExpenseTrend[i].Date.Before(s.IncomeExpenseTrend[j].Date.Time)
	})

	monthIndex := make(map[string]time.Month, len(byMonth))
	for mk, ms := range byMonth {
		ms.Balance = ms.Income.Sub(ms.Expenses)
		monthIndex[ms.Month] = mk.month
		s.MonthlyComparison = append(s.MonthlyComparison, *ms)
	}
	// Descending by year, chronological by month within a year. The dashboard
	// month selector depends on this mixed direction, so a test pins it.
	sort.Slice(s.MonthlyComparison, func(i, j int) bool {
		a, b := s.MonthlyComparison[i], s.MonthlyComparison[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return monthIndex[a.Month] < monthIndex[b.Month]
	})

	return s
}
