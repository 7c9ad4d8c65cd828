package parser

import (
	"testing"

	"github.com/statementkit/estatement-compiler/internal/models"
)

func TestResolveYear(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		none     bool
	}{
		{
			name:     "date range",
			text:     "Your statement\nMarch 18 to April 16, 2022\nAccount number",
			expected: 2022,
		},
		{
			name:     "single trailing date",
			text:     "Statement as of April 16, 2023",
			expected: 2023,
		},
		{
			name:     "bare year fallback",
			text:     "some header 2021 some footer",
			expected: 2021,
		},
		{
			name:     "range preferred over bare digits",
			text:     "1999 ref\nDecember 18 to January 16, 2022",
			expected: 2022,
		},
		{
			name: "no date information",
			text: "no dates here at all",
			none: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveYear(tt.text)
			if tt.none {
				if got != nil {
					t.Errorf("got %d, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil, want a year")
			}
			if *got != tt.expected {
				t.Errorf("got %d, want %d", *got, tt.expected)
			}
		})
	}
}

func TestApplyYear_DecemberRollback(t *testing.T) {
	year := 2022
	st := &models.Statement{
		Year: &year,
		Transactions: []models.Transaction{
			{Month: "Dec", Day: 20},
			{Month: "Jan", Day: 5},
		},
	}

	ApplyYear(st)

	if st.Transactions[0].Year == nil || *st.Transactions[0].Year != 2021 {
		t.Errorf("December year: got %v, want 2021", st.Transactions[0].Year)
	}
	if st.Transactions[1].Year == nil || *st.Transactions[1].Year != 2022 {
		t.Errorf("January year: got %v, want 2022", st.Transactions[1].Year)
	}
}

func TestApplyYear_UnresolvedYearStaysNil(t *testing.T) {
	st := &models.Statement{
		Transactions: []models.Transaction{{Month: "Jan", Day: 5}},
	}

	ApplyYear(st)

	if st.Transactions[0].Year != nil {
		t.Errorf("year: got %d, want nil", *st.Transactions[0].Year)
	}
}
