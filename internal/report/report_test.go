package report

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func rec(des, amt string, cat core.Category, date string) core.Record {
	return core.Record{
		Description: des,
		Amount:      decimal.RequireFromString(amt),
		Category:    cat,
		Date:        date,
	}
}

func TestDescribe(t *testing.T) {
	records := []core.Record{
		rec("a", "1", core.Income, "2025-01-01"),
		rec("b", "2", core.Income, "2025-01-02"),
		rec("c", "3", core.Income, "2025-01-03"),
		rec("d", "4", core.Income, "2025-01-04"),
	}

	s, ok := Describe(records)
	require.True(t, ok)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-9)
	assert.InDelta(t, 1.0, s.Min, 1e-9)
	assert.InDelta(t, 1.75, s.Q1, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, 3.25, s.Q3, 1e-9)
	assert.InDelta(t, 4.0, s.Max, 1e-9)
}

func TestDescribeSingleRecord(t *testing.T) {
	s, ok := Describe([]core.Record{rec("a", "7", core.Income, "2025-01-01")})
	require.True(t, ok)
	assert.Equal(t, 1, s.Count)
	assert.InDelta(t, 7.0, s.Mean, 1e-9)
	assert.True(t, math.IsNaN(s.Std), "sample std of one value is NaN")
	assert.InDelta(t, 7.0, s.Median, 1e-9)
}

func TestDescribeEmpty(t *testing.T) {
	_, ok := Describe(nil)
	assert.False(t, ok)
}

func TestTotalsScenario(t *testing.T) {
	// Stored amounts after the input builder: +1000 and -400.
	records := []core.Record{
		rec("salary", "1000", core.Income, "2025-01-02"),
		rec("rent", "-400", core.Expense, "2025-01-03"),
	}

	o, ok := Totals(records)
	require.True(t, ok)
	assert.True(t, o.Income.Equal(decimal.NewFromInt(1000)))
	assert.True(t, o.Expenses.Equal(decimal.NewFromInt(-400)))
	assert.True(t, o.Balance.Equal(decimal.NewFromInt(600)))
}

// income/expense totals plus balance must equal the arithmetic sum of
// all amounts, whatever the category spellings are.
func TestTotalsArithmeticSum(t *testing.T) {
	records := []core.Record{
		rec("a", "123.45", core.Income, "2025-01-01"),
		rec("b", "-50.5", core.Expense, "2025-01-02"),
		rec("c", "0.05", "income", "2025-01-03"),
		rec("d", "-7", "EXPENSE", "2025-02-01"),
	}

	o, ok := Totals(records)
	require.True(t, ok)

	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	assert.True(t, o.Balance.Equal(o.Income.Add(o.Expenses)))
	assert.True(t, o.Balance.Equal(sum))
	// Case-insensitive matching folded "income"/"EXPENSE" in.
	assert.True(t, o.Income.Equal(decimal.RequireFromString("123.5")))
	assert.True(t, o.Expenses.Equal(decimal.RequireFromString("-57.5")))
}

func TestTotalsEmpty(t *testing.T) {
	_, ok := Totals(nil)
	assert.False(t, ok)
}

func TestDistributionExactGrouping(t *testing.T) {
	records := []core.Record{
		rec("a", "10", core.Income, "2025-01-01"),
		rec("b", "-4", core.Expense, "2025-01-02"),
		rec("c", "5", "income", "2025-01-03"), // lower case stays its own group
		rec("d", "-1", core.Expense, "2025-01-04"),
	}

	got := Distribution(records)
	require.Len(t, got, 3)
	// Ascending by category, byte order: "Expense" < "Income" < "income".
	assert.Equal(t, core.Expense, got[0].Category)
	assert.True(t, got[0].Total.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, core.Income, got[1].Category)
	assert.True(t, got[1].Total.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, core.Category("income"), got[2].Category)
	assert.True(t, got[2].Total.Equal(decimal.NewFromInt(5)))
}

func TestDistributionEmpty(t *testing.T) {
	assert.Empty(t, Distribution(nil))
}

func TestMonthlyTrendPivot(t *testing.T) {
	records := []core.Record{
		rec("salary", "1000", core.Income, "2025-01-02"),
		rec("rent", "-400", core.Expense, "2025-01-03"),
		rec("salary", "1000", core.Income, "2025-02-02"),
		rec("books", "-30", core.Expense, "2025-02-10"),
		rec("gift", "50", core.Income, "2025-02-14"),
	}

	trend := MonthlyTrend(records)
	assert.Equal(t, []string{"2025-01", "2025-02"}, trend.Months)
	assert.Equal(t, []string{"Expense", "Income"}, trend.Categories)
	require.Len(t, trend.Cells, 2)

	assert.True(t, trend.Cells[0][0].Equal(decimal.NewFromInt(-400)))
	assert.True(t, trend.Cells[0][1].Equal(decimal.NewFromInt(1000)))
	assert.True(t, trend.Cells[1][0].Equal(decimal.NewFromInt(-30)))
	assert.True(t, trend.Cells[1][1].Equal(decimal.NewFromInt(1050)))
	assert.Zero(t, trend.SkippedDates)
}

func TestMonthlyTrendFillsMissingCells(t *testing.T) {
	records := []core.Record{
		rec("salary", "1000", core.Income, "2025-01-02"),
		rec("rent", "-400", core.Expense, "2025-02-03"),
	}

	trend := MonthlyTrend(records)
	require.Len(t, trend.Cells, 2)
	// January has no Expense, February no Income: zero-filled.
	assert.True(t, trend.Cells[0][0].IsZero())
	assert.True(t, trend.Cells[1][1].IsZero())
}

func TestMonthlyTrendSkipsBadDates(t *testing.T) {
	records := []core.Record{
		rec("salary", "1000", core.Income, "2025-01-02"),
		rec("junk", "5", core.Income, "not-a-date"),
		rec("junk2", "5", core.Income, "2025-13-40"),
	}

	trend := MonthlyTrend(records)
	assert.Equal(t, 2, trend.SkippedDates)
	assert.Equal(t, []string{"2025-01"}, trend.Months)
	require.Len(t, trend.Cells, 1)
	assert.True(t, trend.Cells[0][0].Equal(decimal.NewFromInt(1000)))
}

func TestMonthlyTrendEmpty(t *testing.T) {
	trend := MonthlyTrend(nil)
	assert.Empty(t, trend.Months)
	assert.Zero(t, trend.SkippedDates)
}

// Running the engine twice on the same snapshot yields identical
// results and leaves the snapshot untouched.
func TestReportsArePure(t *testing.T) {
	records := []core.Record{
		rec("salary", "1000", core.Income, "2025-01-02"),
		rec("rent", "-400", core.Expense, "2025-01-03"),
	}
	before := make([]core.Record, len(records))
	copy(before, records)

	o1, _ := Totals(records)
	o2, _ := Totals(records)
	assert.True(t, o1.Balance.Equal(o2.Balance))

	d1 := Distribution(records)
	d2 := Distribution(records)
	assert.Equal(t, d1, d2)

	t1 := MonthlyTrend(records)
	t2 := MonthlyTrend(records)
	assert.Equal(t, t1, t2)

	assert.Equal(t, before, records)
}
