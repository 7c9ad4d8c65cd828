package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/statementkit/estatement-compiler/internal/models"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func TestSortTransactions(t *testing.T) {
	txns := []models.Transaction{
		{Day: 5, Month: "Jan", Year: iptr(2023)},
		{Day: 20, Month: "Dec", Year: iptr(2022)},
		{Day: 1, Month: "Apr", Year: iptr(2022)},
		{Day: 9, Month: "Apr", Year: iptr(2022)},
		{Day: 3, Month: "Sep"}, // unresolved year sorts first
	}

	SortTransactions(txns)

	wantOrder := []struct {
		month string
		day   int
	}{
		{"Sep", 3},
		{"Apr", 1},
		{"Apr", 9},
		{"Dec", 20},
		{"Jan", 5},
	}
	for i, want := range wantOrder {
		if txns[i].Month != want.month || txns[i].Day != want.day {
			t.Errorf("position %d: got %s%d, want %s%d",
				i, txns[i].Month, txns[i].Day, want.month, want.day)
		}
	}
}

func TestCompile_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	csvA := "date,month,year,description,withdrawal,deposit,balance\n" +
		"9,Apr,2022,GROCERY STORE,25,,75\n" +
		"10,Apr,2022,PAYROLL DEP,,500,575\n"
	csvB := "date,month,year,description,withdrawal,deposit,balance\n" +
		"20,Mar,2022,COFFEE,4.5,,99.5\n"

	if err := os.WriteFile(filepath.Join(dir, "2022-04.csv"), []byte(csvA), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2022-03.csv"), []byte(csvB), 0o644); err != nil {
		t.Fatal(err)
	}

	txns, err := Compile(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(txns) != 3 {
		t.Fatalf("transactions: got %d, want 3", len(txns))
	}
	if txns[0].Month != "Mar" {
		t.Errorf("first transaction month: got %s, want Mar", txns[0].Month)
	}
	if txns[0].Withdrawal == nil || *txns[0].Withdrawal != 4.5 {
		t.Errorf("first withdrawal: got %v, want 4.5", txns[0].Withdrawal)
	}
	if txns[1].Deposit != nil {
		t.Errorf("txn[1] should be the Apr 9 withdrawal, got deposit %v", *txns[1].Deposit)
	}

	exportPath := filepath.Join(dir, "out", "EXPORT.csv")
	if err := WriteExport(exportPath, txns); err != nil {
		t.Fatalf("write export: %v", err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestCompile_NoFiles(t *testing.T) {
	if _, err := Compile(t.TempDir()); err == nil {
		t.Error("expected error for empty directory, got nil")
	}
}

func TestSummarize(t *testing.T) {
	txns := []models.Transaction{
		{Day: 9, Month: "Apr", Year: iptr(2022), Description: "GROCERY", Withdrawal: fptr(25), Balance: 75},
		{Day: 10, Month: "Apr", Year: iptr(2022), Description: "PAYROLL", Deposit: fptr(500), Balance: 575},
		{Day: 2, Month: "May", Year: iptr(2022), Description: "RENT", Withdrawal: fptr(800), Balance: 100},
		{Day: 3, Month: "Sep", Description: "NO YEAR", Withdrawal: fptr(10), Balance: 90},
	}

	s := Summarize(txns)

	if s.Count != 4 {
		t.Errorf("count: got %d, want 4", s.Count)
	}
	if s.TotalDeposits != 500 {
		t.Errorf("total deposits: got %f, want 500", s.TotalDeposits)
	}
	if s.TotalWithdrawals != 835 {
		t.Errorf("total withdrawals: got %f, want 835", s.TotalWithdrawals)
	}

	// The unresolved-year transaction is excluded from the breakdown.
	if len(s.Monthly) != 2 {
		t.Fatalf("monthly buckets: got %d, want 2", len(s.Monthly))
	}
	apr := s.Monthly[0]
	if apr.Month != "Apr" || apr.Net() != 475 {
		t.Errorf("April flow: got %s net %f, want Apr net 475", apr.Month, apr.Net())
	}
	may := s.Monthly[1]
	if may.Month != "May" || may.Net() != -800 {
		t.Errorf("May flow: got %s net %f, want May net -800", may.Month, may.Net())
	}

	if len(s.TopWithdrawals) != 3 {
		t.Fatalf("top withdrawals: got %d, want 3", len(s.TopWithdrawals))
	}
	if s.TopWithdrawals[0].Description != "RENT" {
		t.Errorf("largest withdrawal: got %q, want RENT", s.TopWithdrawals[0].Description)
	}
}
