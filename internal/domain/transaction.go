package domain

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "Income"
	TransactionExpense TransactionType = "Expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Frequency is advisory metadata; no recurring entries are generated from it.
type Frequency string

const (
	FrequencyAnnually    Frequency = "Annually"
	FrequencyQuarterly   Frequency = "Quarterly"
	FrequencyTrimester   Frequency = "Trimester"
	FrequencySemester    Frequency = "Semester"
	FrequencyMonthly     Frequency = "Monthly"
	FrequencyFortnightly Frequency = "Fortnightly"
	FrequencyWeekly      Frequency = "Weekly"
	FrequencyOnce        Frequency = "Once"
)

// Frequencies lists the selectable frequencies in display order.
var Frequencies = []Frequency{
	FrequencyAnnually,
	FrequencyQuarterly,
	FrequencyTrimester,
	FrequencySemester,
	FrequencyMonthly,
	FrequencyFortnightly,
	FrequencyWeekly,
	FrequencyOnce,
}

// Valid reports whether f is one of Frequencies.
func (f Frequency) Valid() bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// MaxDuration is the longest duration, in months, a transaction may declare.
const MaxDuration = 12

// MaxDescriptionLength mirrors the width of the description column.
const MaxDescriptionLength = 25

// Category is a value from the fixed category catalog.
type Category struct {
	Value string
	Label string
}

// Categories is the fixed catalog offered on transaction forms.
var Categories = []Category{
	{Value: "Freelance Job", Label: "Freelance Job"},
	{Value: "Salary", Label: "Salary"},
	{Value: "Gift", Label: "Gift"},
	{Value: "Groceries", Label: "Groceries"},
	{Value: "Utilities", Label: "Utilities"},
	{Value: "Travel", Label: "Travel"},
	{Value: "Miscellaneous", Label: "Miscellaneous"},
	{Value: "Mortgage", Label: "Mortgage"},
	{Value: "Weekend Fun", Label: "Weekend Fun"},
	{Value: "Transportation", Label: "Transportation"},
	{Value: "Dates", Label: "Dates"},
	{Value: "Vehicle Maintenance", Label: "Vehicle Maintenance"},
	{Value: "Vehicle Repairs", Label: "Vehicle Repairs"},
	{Value: "School Fees", Label: "School Fees"},
	{Value: "Take-outs", Label: "Take-outs"},
	{Value: "Bills", Label: "Bills"},
	{Value: "Rent", Label: "Rent"},
	{Value: "Coffee, Teas, etc", Label: "Morning Rituals (coffee, tea,...)"},
}

// IsCategory reports whether value belongs to the catalog.
func IsCategory(value string) bool {
	for _, c := range Categories {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Transaction is a single income or expense entry owned by one user.
type Transaction struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Amount      int64           `db:"amount"`
	Type        TransactionType `db:"trans_type"`
	Category    string          `db:"category"`
	Frequency   Frequency       `db:"frequency"`
	Duration    int             `db:"duration"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Signed returns the amount with the sign it contributes to a balance.
func (t Transaction) Signed() int64 {
	switch t.Type {
	case TransactionIncome:
		return t.Amount
	case TransactionExpense:
		return -t.Amount
	}
	return 0
}

// OwnedBy reports whether userID owns the transaction.
func (t Transaction) OwnedBy(userID string) bool {
	return userID != "" && t.UserID == userID
}
