package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
)

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

const (
	SavingsOpportunity InsightType = "savings_opportunity"
	SpendingAlert      InsightType = "spending_alert"
	SubscriptionAudit  InsightType = "subscription_audit"
	OtherInsight       InsightType = "other"
)

type (
	TransactionType string
	AccountType     string
	Sender          string
	InsightType     string

	// Transaction is a single money movement. Expense rows carry negative
	// cents (the insert path negates them); income and transfer rows carry
	// the amount as given.
	Transaction struct {
		ID                string
		UserID            string
		Amount            Money
		Type              TransactionType
		Description       string
		Category          string
		Date              Date
		SyncedFromBank    bool
		BankTransactionID string
		CreatedAt         time.Time
	}

	// Goal is a savings target. Progress is updated by hand, never derived
	// from transactions.
	Goal struct {
		ID        string
		UserID    string
		Name      string
		Target    Money
		Current   Money
		Icon      string
		Deadline  *Date
		CreatedAt time.Time
	}

	// Insight is produced by an external generation process; this service
	// only stores and serves them.
	Insight struct {
		ID          string
		UserID      string
		Type        InsightType
		Title       string
		Description string
		IsRead      bool
		CreatedAt   time.Time
	}

	ChatMessage struct {
		ID             string
		UserID         string
		Sender         Sender
		Text           string
		ConversationID string
		CreatedAt      time.Time
	}

	BankAccount struct {
		ID          string
		UserID      string
		BankName    string
		AccountType AccountType
		LastFour    string
		Connected   bool
		LastSynced  *time.Time
		SyncError   string
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrEmptyDescription   = errors.New("empty description")
	ErrLongDescription    = errors.New("description too long (max 200 characters)")
	ErrEmptyCategory      = errors.New("empty category")
	ErrZeroDate           = errors.New("date cannot be zero")
	ErrEmptyMessage       = errors.New("empty message")
	ErrEmptyConversation  = errors.New("empty conversation id")
	ErrEmptyGoalName      = errors.New("empty goal name")
	ErrEmptyBankName      = errors.New("empty bank name")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidLastFour    = errors.New("last four must be 4 digits")
)

// IsValidation reports whether err is one of the domain validation
// failures, as opposed to a store or infrastructure error.
func IsValidation(err error) bool {
	for _, e := range []error{
		ErrInvalidAmount, ErrInvalidType, ErrEmptyDescription,
		ErrLongDescription, ErrEmptyCategory, ErrZeroDate,
		ErrEmptyMessage, ErrEmptyConversation, ErrEmptyGoalName,
		ErrEmptyBankName, ErrInvalidAccountType, ErrInvalidLastFour,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (a AccountType) Valid() bool {
	return a == Checking || a == Savings
}

func (t Transaction) Validate() error {
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrLongDescription
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a BankAccount) Validate() error {
	if strings.TrimSpace(a.BankName) == "" {
		return ErrEmptyBankName
	}
	if !a.AccountType.Valid() {
		return ErrInvalidAccountType
	}
	if len(a.LastFour) != 4 {
		return ErrInvalidLastFour
	}
	for _, r := range a.LastFour {
		if r < '0' || r > '9' {
			return ErrInvalidLastFour
		}
	}
	return nil
}
