package core

// CategoryBucket is one slice of the expense breakdown: a category's total
// and its share of all expenses in the window.
type CategoryBucket struct {
	Category   string  `json:"category"`
	Amount     Money   `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint carries income and expense totals for one calendar day.
type TrendPoint struct {
	Date     Date  `json:"date"`
	Income   Money `json:"income"`
	Expenses Money `json:"expenses"`
}

// MonthSummary compares one calendar month's income against its expenses.
type MonthSummary struct {
	Month    string `json:"month"`
	Year     int    `json:"year"`
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"`
	Balance  Money  `json:"balance"`
}

// Summary is the full derived view for a reporting window. It has no
// identity and is never persisted; every aggregation call recomputes it.
type Summary struct {
	TotalIncome          Money           `json:"totalIncome"`
	TotalExpenses        Money           `json:"totalExpenses"`
	Balance              Money           `json:"balance"`
	AverageDailySpending Money           `json:"averageDailySpending"`
	CategoryBreakdown    []CategoryBucket `json:"categoryBreakdown"`
	IncomeExpenseTrend   []TrendPoint     `json:"incomeExpenseTrend"`
	MonthlyComparison    []MonthSummary   `json:"monthlyComparison"`
}

// BudgetStatus is the derived progress of one monthly budget.
type BudgetStatus struct {
	Budget      Budget  `json:"budget"`
	Spent       Money   `json:"spent"`
	Remaining   Money   `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
	OverBudget  bool    `json:"overBudget"`
}
