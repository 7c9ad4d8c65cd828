package models

// Transaction represents a single e-statement ledger entry.
//
// Statement lines carry only a month token and a day; the calendar year is
// resolved separately from the statement's date range and filled in as a
// post-pass, so Year stays nil when resolution fails. Exactly one of
// Withdrawal/Deposit is set for a well-formed entry — the statement never
// labels direction explicitly, it is inferred from the running balance.
type Transaction struct {
	Day         int      `csv:"date" json:"date"`
	Month       string   `csv:"month" json:"month"`
	Year        *int     `csv:"year" json:"year"`
	Description string   `csv:"description" json:"description"`
	Withdrawal  *float64 `csv:"withdrawal" json:"withdrawal"`
	Deposit     *float64 `csv:"deposit" json:"deposit"`
	Balance     float64  `csv:"balance" json:"balance"`
}

// Amount returns the transaction amount regardless of direction.
func (t *Transaction) Amount() float64 {
	if t.Withdrawal != nil {
		return *t.Withdrawal
	}
	if t.Deposit != nil {
		return *t.Deposit
	}
	return 0
}

// IsWithdrawal reports whether the entry moved money out of the account.
func (t *Transaction) IsWithdrawal() bool {
	return t.Withdrawal != nil
}

// Statement holds everything recovered from one e-statement document.
type Statement struct {
	Name           string        `json:"name"`
	Year           *int          `json:"year"`
	OpeningBalance *float64      `json:"openingBalance"`
	Transactions   []Transaction `json:"transactions"`
}

// LineKind classifies a single line of extracted statement text.
type LineKind int

const (
	// LineContinuation is description text belonging to the previous
	// transaction. It is the default for anything not recognized below.
	LineContinuation LineKind = iota
	// LineTransactionStart begins a ledger entry (month token + day).
	LineTransactionStart
	// LineSectionBreak is a page-break sentinel or a repeated
	// "(continued)" banner.
	LineSectionBreak
	// LineFooter is page furniture: page numbers, reference codes,
	// separator rules, account number runs, closing-balance lines.
	LineFooter
)

func (k LineKind) String() string {
	switch k {
	case LineTransactionStart:
		return "transaction-start"
	case LineSectionBreak:
		return "section-break"
	case LineFooter:
		return "footer"
	default:
		return "continuation"
	}
}

// MonthNumber maps a three-letter month token to its calendar position
// (Jan=1..Dec=12). Returns 0 for anything unrecognized.
func MonthNumber(month string) int {
	switch month {
	case "Jan":
		return 1
	case "Feb":
		return 2
	case "Mar":
		return 3
	case "Apr":
		return 4
	case "May":
		return 5
	case "Jun":
		return 6
	case "Jul":
		return 7
	case "Aug":
		return 8
	case "Sep":
		return 9
	case "Oct":
		return 10
	case "Nov":
		return 11
	case "Dec":
		return 12
	default:
		return 0
	}
}
