// Package report computes aggregates over a ledger snapshot.
//
// Every function is pure: it reads the record slice it is given and
// never mutates or persists anything. Empty input produces an explicit
// no-data result, never an error.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"fintrack/internal/core"
)

// Summary is a descriptive-statistics table over record amounts.
// Std is the sample standard deviation and is NaN for a single record.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Overview holds the income/expense totals. Expense amounts are
// negative, so Balance is the plain arithmetic sum of the two totals.
type Overview struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// CategoryTotal is a per-category amount sum.
type CategoryTotal struct {
	Category core.Category
	Total    decimal.Decimal
}

// TrendTable is the month-by-category matrix of summed amounts.
// Months are chronological "YYYY-MM" keys, Categories are sorted
// ascending, and Cells[i][j] is the sum for Months[i] × Categories[j],
// zero where no record falls in the bucket. Records whose date does
// not parse are skipped and counted in SkippedDates.
type TrendTable struct {
	Months       []string
	Categories   []string
	Cells        [][]decimal.Decimal
	SkippedDates int
}

// Describe returns summary statistics of the record amounts. The
// second return is false when there are no records. Quartiles use
// linear interpolation between order statistics.
func Describe(records []core.Record) (Summary, bool) {
	if len(records) == 0 {
		return Summary{}, false
	}

	amounts := make([]float64, len(records))
	for i, r := range records {
		amounts[i] = r.Amount.InexactFloat64()
	}
	sort.Float64s(amounts)

	return Summary{
		Count:  len(amounts),
		Mean:   stat.Mean(amounts, nil),
		Std:    stat.StdDev(amounts, nil),
		Min:    amounts[0],
		Q1:     quantile(amounts, 0.25),
		Median: quantile(amounts, 0.5),
		Q3:     quantile(amounts, 0.75),
		Max:    amounts[len(amounts)-1],
	}, true
}

// quantile interpolates linearly at position (n-1)*p of the sorted
// sample, the convention of the usual describe() tables.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Totals sums income and expense amounts, matching the category
// case-insensitively. The second return is false when there are no
// records.
func Totals(records []core.Record) (Overview, bool) {
	if len(records) == 0 {
		return Overview{}, false
	}

	var o Overview
	for _, r := range records {
		switch {
		case r.Category.IsIncome():
			o.Income = o.Income.Add(r.Amount)
		case r.Category.IsExpense():
			o.Expenses = o.Expenses.Add(r.Amount)
		}
	}
	o.Balance = o.Income.Add(o.Expenses)
	return o, true
}

// Distribution groups records by exact category string and sums each
// group, ascending by category. Grouping is deliberately
// case-sensitive even though Totals matches case-insensitively: two
// spellings of a category stay two rows here.
func Distribution(records []core.Record) []CategoryTotal {
	sums := map[core.Category]decimal.Decimal{}
	for _, r := range records {
		sums[r.Category] = sums[r.Category].Add(r.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for c, total := range sums {
		out = append(out, CategoryTotal{Category: c, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// MonthlyTrend buckets records by calendar month and category and
// pivots the sums into a TrendTable. An empty ledger yields a table
// with no months.
func MonthlyTrend(records []core.Record) TrendTable {
	type bucket struct {
		month    string
		category core.Category
	}

	sums := map[bucket]decimal.Decimal{}
	months := map[string]bool{}
	categories := map[core.Category]bool{}
	skipped := 0

	for _, r := range records {
		d, err := time.Parse(core.DateLayout, r.Date)
		if err != nil {
			skipped++
			continue
		}
		m := d.Format("2006-01")
		b := bucket{month: m, category: r.Category}
		sums[b] = sums[b].Add(r.Amount)
		months[m] = true
		categories[r.Category] = true
	}

	table := TrendTable{SkippedDates: skipped}
	for m := range months {
		table.Months = append(table.Months, m)
	}
	sort.Strings(table.Months) // lexical == chronological for YYYY-MM
	for c := range categories {
		table.Categories = append(table.Categories, string(c))
	}
	sort.Strings(table.Categories)

	table.Cells = make([][]decimal.Decimal, len(table.Months))
	for i, m := range table.Months {
		row := make([]decimal.Decimal, len(table.Categories))
		for j, c := range table.Categories {
			row[j] = sums[bucket{month: m, category: core.Category(c)}]
		}
		table.Cells[i] = row
	}
	return table
}
