package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{"dot separator", "12.34", 1234, false},
		{"comma separator", "12,34", 1234, false},
		{"integer", "45", 4500, false},
		{"single frac digit", "4.5", 450, false},
		{"rounds half up", "12.346", 1235, false},
		{"rounds down", "12.344", 1234, false},
		{"leading dot", ".50", 50, false},
		{"whitespace trimmed", " 9.99 ", 999, false},
		{"empty", "", 0, true},
		{"negative rejected", "-3.00", 0, true},
		{"plus rejected", "+3.00", 0, true},
		{"zero rejected", "0", 0, true},
		{"garbage", "12a.3", 0, true},
		{"two dots", "1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneySigns(t *testing.T) {
	if got := (Money{Cents: -650}).Abs().Cents; got != 650 {
		t.Errorf("Abs = %d, want 650", got)
	}
	if got := (Money{Cents: 650}).Negated().Cents; got != -650 {
		t.Errorf("Negated = %d, want -650", got)
	}
	if got := (Money{Cents: -650}).Negated().Cents; got != -650 {
		t.Errorf("Negated of negative = %d, want -650", got)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Amount:      Money{Cents: -650},
		Type:        Expense,
		Description: "Coffee",
		Category:    "Food",
		Date:        NewDate(2024, 1, 5),
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }},
		{"bad type", func(tx *Transaction) { tx.Type = "refund" }},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }},
		{"empty category", func(tx *Transaction) { tx.Category = "" }},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBankAccountValidate(t *testing.T) {
	valid := BankAccount{BankName: "Chase", AccountType: Checking, LastFour: "4821"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid account rejected: %v", err)
	}

	bad := valid
	bad.LastFour = "48a1"
	if err := bad.Validate(); err == nil {
		t.Error("non-digit last four accepted")
	}
	bad = valid
	bad.AccountType = "money-market"
	if err := bad.Validate(); err == nil {
		t.Error("invalid account type accepted")
	}
}
