package compiler

import (
	"fmt"
	"io"
	"sort"

	"github.com/statementkit/estatement-compiler/internal/models"
)

// MonthlyFlow aggregates one calendar month of the compiled set.
type MonthlyFlow struct {
	Year        int
	Month       string
	Deposits    float64
	Withdrawals float64
}

// Net is deposits minus withdrawals for the month.
func (m MonthlyFlow) Net() float64 {
	return m.Deposits - m.Withdrawals
}

// Summary holds aggregate figures over a compiled transaction set.
type Summary struct {
	Count            int
	TotalDeposits    float64
	TotalWithdrawals float64
	Monthly          []MonthlyFlow
	TopWithdrawals   []models.Transaction
}

const topWithdrawalCount = 5

// Summarize computes monthly net cash flow and the largest withdrawals
// over the whole set. Transactions without a resolved year are counted in
// the totals but excluded from the monthly breakdown.
func Summarize(txns []models.Transaction) Summary {
	s := Summary{Count: len(txns)}

	type monthKey struct {
		year  int
		month int
	}
	flows := make(map[monthKey]*MonthlyFlow)

	for i := range txns {
		t := &txns[i]
		if t.Deposit != nil {
			s.TotalDeposits += *t.Deposit
		}
		if t.Withdrawal != nil {
			s.TotalWithdrawals += *t.Withdrawal
		}

		if t.Year == nil {
			continue
		}
		key := monthKey{*t.Year, models.MonthNumber(t.Month)}
		flow, ok := flows[key]
		if !ok {
			flow = &MonthlyFlow{Year: *t.Year, Month: t.Month}
			flows[key] = flow
		}
		if t.Deposit != nil {
			flow.Deposits += *t.Deposit
		}
		if t.Withdrawal != nil {
			flow.Withdrawals += *t.Withdrawal
		}
	}

	keys := make([]monthKey, 0, len(flows))
	for k := range flows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].year != keys[b].year {
			return keys[a].year < keys[b].year
		}
		return keys[a].month < keys[b].month
	})
	for _, k := range keys {
		s.Monthly = append(s.Monthly, *flows[k])
	}

	withdrawals := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.IsWithdrawal() {
			withdrawals = append(withdrawals, t)
		}
	}
	sort.SliceStable(withdrawals, func(a, b int) bool {
		return withdrawals[a].Amount() > withdrawals[b].Amount()
	})
	if len(withdrawals) > topWithdrawalCount {
		withdrawals = withdrawals[:topWithdrawalCount]
	}
	s.TopWithdrawals = withdrawals

	return s
}

// WriteText renders the summary as a plain-text report.
func (s Summary) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Transactions: %d\n", s.Count)
	fmt.Fprintf(w, "Total deposits:    %12.2f\n", s.TotalDeposits)
	fmt.Fprintf(w, "Total withdrawals: %12.2f\n", s.TotalWithdrawals)
	fmt.Fprintf(w, "Net:               %12.2f\n", s.TotalDeposits-s.TotalWithdrawals)

	if len(s.Monthly) > 0 {
		fmt.Fprintf(w, "\nMonthly net cash flow:\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(w, "  %d %s  deposits %10.2f  withdrawals %10.2f  net %10.2f\n",
				m.Year, m.Month, m.Deposits, m.Withdrawals, m.Net())
		}
	}

	if len(s.TopWithdrawals) > 0 {
		fmt.Fprintf(w, "\nTop withdrawals:\n")
		for _, t := range s.TopWithdrawals {
			year := ""
			if t.Year != nil {
				year = fmt.Sprintf(", %d", *t.Year)
			}
			fmt.Fprintf(w, "  %s %d%s  %10.2f  %s\n", t.Month, t.Day, year, t.Amount(), t.Description)
		}
	}

	return nil
}
