package http

import (
	"time"

	"tally/internal/core"
	"tally/internal/services"
)

// Wire shapes. Amounts travel as integer cents plus a display string so
// the frontend never does currency math.

type transactionJSON struct {
	ID                string    `json:"id"`
	AmountCents       int64     `json:"amountCents"`
	Amount            string    `json:"amount"`
	Type              string    `json:"type"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	CategoryGlyph     string    `json:"categoryGlyph"`
	Date              string    `json:"date"`
	SyncedFromBank    bool      `json:"syncedFromBank"`
	BankTransactionID string    `json:"bankTransactionId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:                tx.ID,
		AmountCents:       tx.Amount.Cents,
		Amount:            core.FormatCurrency(tx.Amount),
		Type:              string(tx.Type),
		Description:       tx.Description,
		Category:          tx.Category,
		CategoryGlyph:     core.CategoryGlyph(tx.Category),
		Date:              tx.Date.String(),
		SyncedFromBank:    tx.SyncedFromBank,
		BankTransactionID: tx.BankTransactionID,
		CreatedAt:         tx.CreatedAt,
	}
}

func toTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionJSON(tx)
	}
	return out
}

type goalJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TargetCents  int64     `json:"targetCents"`
	Target       string    `json:"target"`
	CurrentCents int64     `json:"currentCents"`
	Current      string    `json:"current"`
	Icon         string    `json:"icon"`
	Deadline     *string   `json:"deadline,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toGoalJSON(g core.Goal) goalJSON {
	out := goalJSON{
		ID:           g.ID,
		Name:         g.Name,
		TargetCents:  g.Target.Cents,
		Target:       core.FormatCurrency(g.Target),
		CurrentCents: g.Current.Cents,
		Current:      core.FormatCurrency(g.Current),
		Icon:         g.Icon,
		CreatedAt:    g.CreatedAt,
	}
	if g.Deadline != nil {
		d := g.Deadline.String()
		out.Deadline = &d
	}
	return out
}

func toGoalsJSON(goals []core.Goal) []goalJSON {
	out := make([]goalJSON, len(goals))
	for i, g := range goals {
		out[i] = toGoalJSON(g)
	}
	return out
}

type insightJSON struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toInsightsJSON(insights []core.Insight) []insightJSON {
	out := make([]insightJSON, len(insights))
	for i, in := range insights {
		out[i] = insightJSON{
			ID:          in.ID,
			Type:        string(in.Type),
			Title:       in.Title,
			Description: in.Description,
			IsRead:      in.IsRead,
			CreatedAt:   in.CreatedAt,
		}
	}
	return out
}

type chatMessageJSON struct {
	ID             string    `json:"id"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	ConversationID string    `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toChatMessageJSON(m core.ChatMessage) chatMessageJSON {
	return chatMessageJSON{
		ID:             m.ID,
		Sender:         string(m.Sender),
		Text:           m.Text,
		ConversationID: m.ConversationID,
		CreatedAt:      m.CreatedAt,
	}
}

func toChatMessagesJSON(msgs []core.ChatMessage) []chatMessageJSON {
	out := make([]chatMessageJSON, len(msgs))
	for i, m := range msgs {
		out[i] = toChatMessageJSON(m)
	}
	return out
}

type accountJSON struct {
	ID          string     `json:"id"`
	BankName    string     `json:"bankName"`
	AccountType string     `json:"accountType"`
	LastFour    string     `json:"lastFour"`
	Connected   bool       `json:"connected"`
	LastSynced  *time.Time `json:"lastSynced,omitempty"`
	SyncError   string     `json:"syncError,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toAccountJSON(a core.BankAccount) accountJSON {
	return accountJSON{
		ID:          a.ID,
		BankName:    a.BankName,
		AccountType: string(a.AccountType),
		LastFour:    a.LastFour,
		Connected:   a.Connected,
		LastSynced:  a.LastSynced,
		SyncError:   a.SyncError,
		CreatedAt:   a.CreatedAt,
	}
}

func toAccountsJSON(accounts []core.BankAccount) []accountJSON {
	out := make([]accountJSON, len(accounts))
	for i, a := range accounts {
		out[i] = toAccountJSON(a)
	}
	return out
}

type totalsJSON struct {
	IncomeCents   int64  `json:"incomeCents"`
	Income        string `json:"income"`
	ExpensesCents int64  `json:"expensesCents"`
	Expenses      string `json:"expenses"`
	NetCents      int64  `json:"netCents"`
	Net           string `json:"net"`
}

type categoryTotalJSON struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
	Glyph       string `json:"glyph"`
}

type dateGroupJSON struct {
	Label        string            `json:"label"`
	Transactions []transactionJSON `json:"transactions"`
}

type dayActivityJSON struct {
	Label         string `json:"label"`
	IncomeCents   int64  `json:"incomeCents"`
	ExpensesCents int64  `json:"expensesCents"`
}

type summaryJSON struct {
	Totals        totalsJSON          `json:"totals"`
	Categories    []categoryTotalJSON `json:"categories"`
	TopCategories []categoryTotalJSON `json:"topCategories"`
	ByDate        []dateGroupJSON     `json:"byDate"`
	Weekly        []dayActivityJSON   `json:"weekly"`
}

func toCategoryTotalsJSON(totals []core.CategoryTotal) []categoryTotalJSON {
	out := make([]categoryTotalJSON, len(totals))
	for i, ct := range totals {
		out[i] = categoryTotalJSON{
			Category:    ct.Category,
			AmountCents: ct.Amount.Cents,
			Amount:      core.FormatCurrency(ct.Amount),
			Glyph:       core.CategoryGlyph(ct.Category),
		}
	}
	return out
}

func toSummaryJSON(s services.Summary) summaryJSON {
	out := summaryJSON{
		Totals: totalsJSON{
			IncomeCents:   s.Totals.Income.Cents,
			Income:        core.FormatCurrency(s.Totals.Income),
			ExpensesCents: s.Totals.Expenses.Cents,
			Expenses:      core.FormatCurrency(s.Totals.Expenses),
			NetCents:      s.Totals.Net.Cents,
			Net:           core.FormatCurrency(s.Totals.Net),
		},
		Categories:    toCategoryTotalsJSON(s.Categories),
		TopCategories: toCategoryTotalsJSON(s.TopCategories),
	}
	for _, g := range s.ByDate {
		out.ByDate = append(out.ByDate, dateGroupJSON{
			Label:        g.Label,
			Transactions: toTransactionsJSON(g.Transactions),
		})
	}
	for _, d := range s.Weekly {
		out.Weekly = append(out.Weekly, dayActivityJSON{
			Label:         d.Label,
			IncomeCents:   d.Income.Cents,
			ExpensesCents: d.Expenses.Cents,
		})
	}
	return out
}
