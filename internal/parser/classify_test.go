package parser

import (
	"testing"

	"github.com/statementkit/estatement-compiler/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected models.LineKind
	}{
		{"page break sentinel", "=== PAGE BREAK ===", models.LineSectionBreak},
		{"continued banner", "Here's what happened in your account (continued)", models.LineSectionBreak},
		{"transaction start", "Jan9 GROCERY STORE 25.00 75.00", models.LineTransactionStart},
		{"transaction start with injected space", "Jan 9 GROCERY STORE 25.00 75.00", models.LineTransactionStart},
		{"december start", "Dec31 YEAR END FEE 5.00 100.00", models.LineTransactionStart},
		{"page number", "Page 2 of 5", models.LineFooter},
		{"page number lowercase", "page 3 of 3", models.LineFooter},
		{"reference code", "VASBS012", models.LineFooter},
		{"separator rule", "------------", models.LineFooter},
		{"underscore rule", "___", models.LineFooter},
		{"bare account number", "1234567890", models.LineFooter},
		{"closing balance", "Closing Balance 1,234.56", models.LineFooter},
		{"description text", "MERCHANT REF 12345", models.LineContinuation},
		{"month name alone is not a start", "January statement", models.LineContinuation},
		{"short digit run is not footer", "12345", models.LineContinuation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line)
			if got != tt.expected {
				t.Errorf("Classify(%q): got %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestIsTransactionStart(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"Jan9 POS PURCHASE 10.00 90.00", true},
		{"Jan 9 POS PURCHASE 10.00 90.00", true},
		{"Sep1", true},
		{"Dec 3 1", true}, // stray spaces inside the day
		{"January 9", false},
		{"POS PURCHASE Jan9", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsTransactionStart(tt.line); got != tt.expected {
				t.Errorf("IsTransactionStart(%q): got %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}
