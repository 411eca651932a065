package session

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func renderRecords(w io.Writer, records []core.Record) {
	for i, r := range records {
		fmt.Fprintf(w, "%d. %s | %s | %s | %s\n", i+1, r.Description, r.Amount, r.Category, r.Date)
	}
	fmt.Fprintln(w, "----------")
}

func renderSummary(w io.Writer, s report.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "count\t%d\n", s.Count)
	fmt.Fprintf(tw, "mean\t%s\n", fnum(s.Mean))
	fmt.Fprintf(tw, "std\t%s\n", fnum(s.Std))
	fmt.Fprintf(tw, "min\t%s\n", fnum(s.Min))
	fmt.Fprintf(tw, "25%%\t%s\n", fnum(s.Q1))
	fmt.Fprintf(tw, "50%%\t%s\n", fnum(s.Median))
	fmt.Fprintf(tw, "75%%\t%s\n", fnum(s.Q3))
	fmt.Fprintf(tw, "max\t%s\n", fnum(s.Max))
	tw.Flush()
	fmt.Fprintln(w, "---------")
}

func renderOverview(w io.Writer, o report.Overview) {
	fmt.Fprintf(w, "Total Income: %s\n", o.Income)
	fmt.Fprintf(w, "Total Expenses: %s\n", o.Expenses)
	fmt.Fprintf(w, "Remaining Balance: %s\n", o.Balance)
}

func renderDistribution(w io.Writer, dist []report.CategoryTotal) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "category\tamount")
	for _, ct := range dist {
		fmt.Fprintf(tw, "%s\t%s\n", ct.Category, ct.Total)
	}
	tw.Flush()
	fmt.Fprintln(w, "---------")
}

func renderTrend(w io.Writer, t report.TrendTable) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "month")
	for _, c := range t.Categories {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintln(tw)
	for i, m := range t.Months {
		fmt.Fprint(tw, m)
		for _, cell := range t.Cells[i] {
			fmt.Fprintf(tw, "\t%s", cell)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	fmt.Fprintln(w, "-----------")
}

// fnum formats a statistic with two decimals; NaN (std of a single
// record) renders as-is.
func fnum(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
