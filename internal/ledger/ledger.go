// Package ledger derives balances and monthly series from transactions.
// Every function here is pure; callers persist the results.
package ledger

import "fintrack/internal/domain"

// Months is the number of monthly buckets produced by Bucket.
const Months = 12

// Balance returns total income minus total expense.
func Balance(txns []domain.Transaction) int64 {
	var balance int64
	for _, t := range txns {
		balance += t.Signed()
	}
	return balance
}

// Monthly holds per-month totals. Slot i holds calendar month i+1.
type Monthly struct {
	Income  [Months]int64
	Expense [Months]int64
	// BalanceSnapshot repeats the current cached balance in every slot.
	// It is not a historical series.
	BalanceSnapshot [Months]int64
}

// Bucket sums income and expense by calendar month of CreatedAt.
// Transactions from different years share the same month slot.
func Bucket(txns []domain.Transaction, currentBalance int64) Monthly {
	var m Monthly
	for _, t := range txns {
		slot := int(t.CreatedAt.Month()) - 1
		if slot < 0 || slot >= Months {
			continue
		}
		switch t.Type {
		case domain.TransactionIncome:
			m.Income[slot] += t.Amount
		case domain.TransactionExpense:
			m.Expense[slot] += t.Amount
		}
	}
	for i := range m.BalanceSnapshot {
		m.BalanceSnapshot[i] = currentBalance
	}
	return m
}

// Overspending reports whether expense exceeded income in any month.
func (m Monthly) Overspending() bool {
	for i := 0; i < Months; i++ {
		if m.Expense[i] > m.Income[i] {
			return true
		}
	}
	return false
}

func (m Monthly) IncomeSum() int64 {
	return sum(m.Income)
}

func (m Monthly) ExpenseSum() int64 {
	return sum(m.Expense)
}

func sum(series [Months]int64) int64 {
	var total int64
	for _, v := range series {
		total += v
	}
	return total
}
