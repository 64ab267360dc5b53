package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/domain"
)

func txn(typ domain.TransactionType, amount int64, month time.Month) domain.Transaction {
	return domain.Transaction{
		Type:      typ,
		Amount:    amount,
		CreatedAt: time.Date(2024, month, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name string
		txns []domain.Transaction
		want int64
	}{
		{name: "empty", txns: nil, want: 0},
		{
			name: "income minus expense",
			txns: []domain.Transaction{
				txn(domain.TransactionIncome, 100, time.January),
				txn(domain.TransactionExpense, 40, time.January),
			},
			want: 60,
		},
		{
			name: "negative",
			txns: []domain.Transaction{
				txn(domain.TransactionIncome, 10, time.March),
				txn(domain.TransactionExpense, 25, time.April),
			},
			want: -15,
		},
		{
			name: "unknown type ignored",
			txns: []domain.Transaction{
				txn(domain.TransactionIncome, 10, time.March),
				txn("Transfer", 99, time.March),
			},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Balance(tt.txns))
		})
	}
}

func TestBucketPlacesAmountsInTheirMonths(t *testing.T) {
	m := Bucket([]domain.Transaction{
		txn(domain.TransactionIncome, 300, time.March),
		txn(domain.TransactionExpense, 70, time.July),
		txn(domain.TransactionIncome, 5, time.July),
	}, 235)

	for i := 0; i < Months; i++ {
		switch i {
		case int(time.March) - 1:
			assert.Equal(t, int64(300), m.Income[i])
			assert.Zero(t, m.Expense[i])
		case int(time.July) - 1:
			assert.Equal(t, int64(5), m.Income[i])
			assert.Equal(t, int64(70), m.Expense[i])
		default:
			assert.Zero(t, m.Income[i], "income slot %d", i)
			assert.Zero(t, m.Expense[i], "expense slot %d", i)
		}
		assert.Equal(t, int64(235), m.BalanceSnapshot[i])
	}
	assert.Equal(t, int64(305), m.IncomeSum())
	assert.Equal(t, int64(70), m.ExpenseSum())
}

func TestBucketMergesYears(t *testing.T) {
	a := txn(domain.TransactionIncome, 10, time.May)
	b := txn(domain.TransactionIncome, 15, time.May)
	b.CreatedAt = b.CreatedAt.AddDate(-1, 0, 0)

	m := Bucket([]domain.Transaction{a, b}, 0)
	assert.Equal(t, int64(25), m.Income[int(time.May)-1])
}

func TestBucketEmpty(t *testing.T) {
	m := Bucket(nil, 0)
	assert.Equal(t, Monthly{}, m)
	assert.False(t, m.Overspending())
}

func TestOverspending(t *testing.T) {
	m := Bucket([]domain.Transaction{
		txn(domain.TransactionIncome, 100, time.February),
		txn(domain.TransactionExpense, 50, time.February),
	}, 50)
	assert.False(t, m.Overspending())

	m = Bucket([]domain.Transaction{
		txn(domain.TransactionIncome, 100, time.February),
		txn(domain.TransactionExpense, 101, time.October),
	}, -1)
	assert.True(t, m.Overspending())
}
