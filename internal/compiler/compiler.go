// Package compiler merges per-statement CSV files into one chronological
// export and produces summary figures over the combined set.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/statementkit/estatement-compiler/internal/models"
	"github.com/statementkit/estatement-compiler/internal/writer"
)

// ReadStatementCSV loads transaction rows from a per-statement CSV file.
func ReadStatementCSV(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var txns []models.Transaction
	if err := gocsv.Unmarshal(f, &txns); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return txns, nil
}

// Compile reads every CSV file in dir, concatenates the transactions and
// sorts them chronologically.
func Compile(dir string) ([]models.Transaction, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found in %q", dir)
	}
	sort.Strings(paths)

	var all []models.Transaction
	for _, path := range paths {
		txns, err := ReadStatementCSV(path)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}

	SortTransactions(all)
	return all, nil
}

// SortTransactions orders transactions ascending by (year, calendar month,
// day). Month ordering is calendar order, not lexical; entries with an
// unresolved year sort first.
func SortTransactions(txns []models.Transaction) {
	sort.SliceStable(txns, func(a, b int) bool {
		ya, yb := yearKey(txns[a].Year), yearKey(txns[b].Year)
		if ya != yb {
			return ya < yb
		}
		ma, mb := models.MonthNumber(txns[a].Month), models.MonthNumber(txns[b].Month)
		if ma != mb {
			return ma < mb
		}
		return txns[a].Day < txns[b].Day
	})
}

func yearKey(y *int) int {
	if y == nil {
		return 0
	}
	return *y
}

// WriteExport writes the merged transaction set to a single CSV file,
// creating the parent directory if needed.
func WriteExport(path string, txns []models.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	return writer.WriteTransactions(f, txns)
}
