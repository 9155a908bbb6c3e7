package report

import (
	"strings"

	"paire/internal/core"
)

// BudgetProgress derives how much of each monthly budget the expense
// transactions have consumed. Over-spending is reported, never treated as
// an error: the UI renders it, the data layer just measures it.
func BudgetProgress(budgets []core.Budget, txs []core.Transaction) []core.BudgetStatus {
	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		status := core.BudgetStatus{Budget: b}
		for _, tx := range txs {
			if !tx.Type.IsExpense() {
				continue
			}
			if tx.Date.Year() != b.Year || int(tx.Date.Month()) != b.Month {
				continue
			}
			if !strings.EqualFold(tx.Category, b.Category) {
				continue
			}
			status.Spent = status.Spent.Add(tx.Amount)
		}
		status.Remaining = b.Limit.Sub(status.Spent)
		if b.Limit.Cents > 0 {
			status.PercentUsed = float64(status.Spent.Cents) / float64(b.Limit.Cents) * 100
		}
		status.OverBudget = status.Spent.Cents > b.Limit.Cents
		statuses = append(statuses, status)
	}
	return statuses
}
