// Package writer serializes statements to CSV in the fixed column order
// date, month, year, description, withdrawal, deposit, balance. Unset
// withdrawal/deposit/year cells are left empty.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/statementkit/estatement-compiler/internal/models"
)

// WriteTransactions writes transaction rows (with header) to w.
func WriteTransactions(w io.Writer, txns []models.Transaction) error {
	if txns == nil {
		txns = []models.Transaction{}
	}
	if err := gocsv.Marshal(&txns, w); err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	return nil
}

// WriteStatement writes one statement's transactions to w.
func WriteStatement(w io.Writer, st *models.Statement) error {
	return WriteTransactions(w, st.Transactions)
}

// WriteFile writes one statement's transactions to a CSV file at path.
func WriteFile(path string, st *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return WriteStatement(f, st)
}
