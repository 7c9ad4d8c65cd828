package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/statementkit/estatement-compiler/internal/models"
)

// Assembler walks cleaned statement lines and builds ordered transactions.
// All state is scoped to one document: the running previous balance used
// for direction inference, and the currently open transaction collecting
// continuation lines. An open transaction closes when the next
// transaction-start line arrives or the input ends.
type Assembler struct {
	log            zerolog.Logger
	prevBalance    float64
	openingBalance *float64
	current        *models.Transaction
	done           []models.Transaction
}

// NewAssembler returns an assembler for a single document.
func NewAssembler(log zerolog.Logger) *Assembler {
	return &Assembler{log: log}
}

// Feed consumes one cleaned line.
func (a *Assembler) Feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	// The opening-balance line seeds direction inference for the first
	// real entry. It is consumed, never emitted as a transaction.
	if strings.Contains(stripSpaces(line), "OpeningBalance") {
		if bal, err := lastAmount(line); err == nil {
			a.prevBalance = bal
			a.openingBalance = &bal
		} else {
			a.log.Warn().Str("line", line).Err(err).Msg("unparseable opening balance line")
		}
		return
	}

	if IsTransactionStart(line) {
		a.startTransaction(line)
		return
	}

	// Continuation text extends the open transaction's description.
	// With nothing open there is nothing to attach it to.
	if a.current != nil {
		a.current.Description += " " + line
	}
}

// Finish flushes any open transaction and returns the ordered result.
func (a *Assembler) Finish() []models.Transaction {
	if a.current != nil {
		a.done = append(a.done, *a.current)
		a.current = nil
	}
	return a.done
}

// OpeningBalance returns the seed balance, or nil when the statement had
// no opening-balance line.
func (a *Assembler) OpeningBalance() *float64 {
	return a.openingBalance
}

func (a *Assembler) startTransaction(line string) {
	txn, balance, err := a.parseStartLine(line)
	if err != nil {
		// Malformed start lines are dropped, not fatal; state and the
		// previous balance stay untouched.
		a.log.Warn().Str("line", line).Err(err).Msg("malformed transaction line, skipping")
		return
	}

	if a.current != nil {
		a.done = append(a.done, *a.current)
	}
	a.current = txn
	a.prevBalance = balance
}

// parseStartLine splits a transaction-start line into its fixed positions:
// first token is the month+day date string, last token the running
// balance, second-to-last the amount, and everything between forms the
// initial description. The original line is split, not the
// space-canonicalized one — only the date regex tolerates injected spaces.
func (a *Assembler) parseStartLine(line string) (*models.Transaction, float64, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return nil, 0, fmt.Errorf("expected date, amount and balance, got %d token(s)", len(parts))
	}

	month, day, err := parseDateToken(parts[0])
	if err != nil {
		return nil, 0, err
	}

	balance, err := parseAmount(parts[len(parts)-1])
	if err != nil {
		return nil, 0, fmt.Errorf("balance token %q: %w", parts[len(parts)-1], err)
	}
	amount, err := parseAmount(parts[len(parts)-2])
	if err != nil {
		return nil, 0, fmt.Errorf("amount token %q: %w", parts[len(parts)-2], err)
	}

	txn := &models.Transaction{
		Month:       month,
		Day:         day,
		Description: strings.Join(parts[1:len(parts)-2], " "),
		Balance:     balance,
	}

	// Direction inference: the statement never labels withdrawals and
	// deposits, so the balance delta decides. A delta of exactly zero is
	// recorded as a withdrawal by convention.
	if balance > a.prevBalance {
		txn.Deposit = &amount
	} else {
		txn.Withdrawal = &amount
	}

	return txn, balance, nil
}

// parseDateToken splits "Jan9" into its month token and day.
func parseDateToken(tok string) (string, int, error) {
	if len(tok) < 4 {
		return "", 0, fmt.Errorf("date token %q too short", tok)
	}
	month := tok[:3]
	if models.MonthNumber(month) == 0 {
		return "", 0, fmt.Errorf("date token %q has no month prefix", tok)
	}
	day, err := strconv.Atoi(tok[3:])
	if err != nil {
		return "", 0, fmt.Errorf("date token %q has non-numeric day", tok)
	}
	if day < 1 || day > 31 {
		return "", 0, fmt.Errorf("date token %q has day out of range", tok)
	}
	return month, day, nil
}

// parseAmount converts "1,234.56" or "$25.99" to a float64.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	return strconv.ParseFloat(s, 64)
}

// lastAmount parses the trailing amount on a line.
func lastAmount(line string) (float64, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty line")
	}
	return parseAmount(parts[len(parts)-1])
}
