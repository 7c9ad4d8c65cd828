// Package store persists compiled transaction sets in sqlite. Each load
// is recorded as an import batch so repeated runs stay distinguishable.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/statementkit/estatement-compiler/internal/models"
)

//go:embed schema.sql
var schema string

type DB struct {
	*sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db}, nil
}

// Init creates tables if they don't exist.
func (db *DB) Init() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// CreateImportBatch records a new batch and returns its id.
func (db *DB) CreateImportBatch(source string, count int) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO import_batches (id, source, transaction_count)
		VALUES (?, ?, ?)
	`, id, source, count)
	if err != nil {
		return "", fmt.Errorf("insert import batch: %w", err)
	}
	return id, nil
}

// InsertTransactions stores a transaction set under the given batch.
func (db *DB) InsertTransactions(batchID string, txns []models.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO transactions (
			batch_id, day, month, year, description, withdrawal, deposit, balance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range txns {
		t := &txns[i]
		if _, err := stmt.Exec(batchID, t.Day, t.Month, t.Year,
			t.Description, t.Withdrawal, t.Deposit, t.Balance); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	return tx.Commit()
}

// ListTransactions returns all transactions for a batch in insert order.
func (db *DB) ListTransactions(batchID string) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT day, month, year, description, withdrawal, deposit, balance
		FROM transactions
		WHERE batch_id = ?
		ORDER BY id
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var year sql.NullInt64
		var withdrawal, deposit sql.NullFloat64
		if err := rows.Scan(&t.Day, &t.Month, &year, &t.Description,
			&withdrawal, &deposit, &t.Balance); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			t.Year = &y
		}
		if withdrawal.Valid {
			t.Withdrawal = &withdrawal.Float64
		}
		if deposit.Valid {
			t.Deposit = &deposit.Float64
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
