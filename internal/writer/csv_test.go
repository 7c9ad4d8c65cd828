package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/statementkit/estatement-compiler/internal/models"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func TestWriteStatement(t *testing.T) {
	st := &models.Statement{
		Name: "2022-04",
		Transactions: []models.Transaction{
			{
				Day: 9, Month: "Jan", Year: iptr(2022),
				Description: "GROCERY STORE",
				Withdrawal:  fptr(25), Balance: 75,
			},
			{
				Day: 10, Month: "Jan", Year: iptr(2022),
				Description: "PAYROLL DEP",
				Deposit:     fptr(500), Balance: 575,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteStatement(&buf, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "date,month,year,description,withdrawal,deposit,balance" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "9,Jan,2022,GROCERY STORE,25,,75" {
		t.Errorf("row 1: got %q", lines[1])
	}
	if lines[2] != "10,Jan,2022,PAYROLL DEP,,500,575" {
		t.Errorf("row 2: got %q", lines[2])
	}
}

func TestWriteStatement_UnresolvedYear(t *testing.T) {
	st := &models.Statement{
		Transactions: []models.Transaction{
			{Day: 9, Month: "Jan", Description: "THING", Withdrawal: fptr(1.5), Balance: 10},
		},
	}

	var buf bytes.Buffer
	if err := WriteStatement(&buf, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[1] != "9,Jan,,THING,1.5,,10" {
		t.Errorf("row with nil year: got %q", lines[1])
	}
}

func TestWriteStatement_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStatement(&buf, &models.Statement{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "date,month,year,description,withdrawal,deposit,balance" {
		t.Errorf("empty statement output: got %q, want header only", got)
	}
}
