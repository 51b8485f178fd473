// Package storage is the sqlite persistence layer. It is the only package
// that talks to the database; everything above it works with core types.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist or belongs to another
// user. Callers must not learn which of the two it was.
var ErrNotFound = errors.New("not found")

const timeFormat = time.RFC3339Nano

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- transactions ---

const transactionColumns = `id, user_id, amount_cents, type, description, category, date, synced_from_bank, bank_transaction_id, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		tx        core.Transaction
		date      string
		createdAt string
		bankID    sql.NullString
	)
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount.Cents, &tx.Type, &tx.Description,
		&tx.Category, &date, &tx.SyncedFromBank, &bankID, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	if tx.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	if tx.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	tx.BankTransactionID = bankID.String
	return tx, nil
}

// ListTransactions returns the user's transactions, newest transaction date
// first (the store's sort contract for this collection).
func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *Repository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// InsertTransaction stores one transaction, minting ID and creation time.
func (r *Repository) InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	stamp(&tx.ID, &tx.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Amount.Cents, tx.Type, tx.Description, tx.Category,
		tx.Date.String(), tx.SyncedFromBank, nullable(tx.BankTransactionID),
		tx.CreatedAt.Format(timeFormat))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

// InsertTransactions stores a batch atomically. Used by the bank sync path.
func (r *Repository) InsertTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		stamp(&tx.ID, &tx.CreatedAt)
		if _, err := stmt.ExecContext(ctx,
			tx.ID, tx.UserID, tx.Amount.Cents, tx.Type, tx.Description, tx.Category,
			tx.Date.String(), tx.SyncedFromBank, nullable(tx.BankTransactionID),
			tx.CreatedAt.Format(timeFormat)); err != nil {
			return nil, fmt.Errorf("insert transaction batch: %w", err)
		}
		inserted = append(inserted, tx)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction batch: %w", err)
	}
	return inserted, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

// ExistingBankTransactionIDs reports which of the candidate bank transaction
// IDs are already imported for the user.
func (r *Repository) ExistingBankTransactionIDs(ctx context.Context, userID string, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT bank_transaction_id FROM transactions WHERE user_id = ? AND bank_transaction_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query existing bank transaction ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bank transaction id: %w", err)
		}
		existing[id] = struct{}{}
	}
	return existing, rows.Err()
}

// --- goals ---

const goalColumns = `id, user_id, name, target_cents, current_cents, icon, deadline, created_at`

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var (
		g         core.Goal
		deadline  sql.NullString
		createdAt string
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents,
		&g.Icon, &deadline, &createdAt)
	if err != nil {
		return core.Goal{}, err
	}
	if deadline.Valid {
		d, err := core.ParseDate(deadline.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse goal deadline %q: %w", deadline.String, err)
		}
		g.Deadline = &d
	}
	if g.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return core.Goal{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return g, nil
}

func (r *Repository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *Repository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *Repository) InsertGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	stamp(&g.ID, &g.CreatedAt)
	var deadline any
	if g.Deadline != nil {
		deadline = g.Deadline.String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.Target.Cents, g.Current.Cents, g.Icon,
		deadline, g.CreatedAt.Format(timeFormat))
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	return g, nil
}

// GoalUpdate is a partial field set. Nil pointers leave the column alone.
type GoalUpdate struct {
	Name     *string
	Target   *core.Money
	Current  *core.Money
	Icon     *string
	Deadline *core.Date
}

func (r *Repository) UpdateGoal(ctx context.Context, userID, id string, upd GoalUpdate) (core.Goal, error) {
	var (
		sets []string
		args []any
	)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Target != nil {
		sets = append(sets, "target_cents = ?")
		args = append(args, upd.Target.Cents)
	}
	if upd.Current != nil {
		sets = append(sets, "current_cents = ?")
		args = append(args, upd.Current.Cents)
	}
	if upd.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, *upd.Icon)
	}
	if upd.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, upd.Deadline.String())
	}
	if len(sets) == 0 {
		return r.GetGoal(ctx, userID, id)
	}

	args = append(args, id, userID)
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return core.Goal{}, err
	}
	return r.GetGoal(ctx, userID, id)
}

func (r *Repository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res)
}

// --- insights ---

const insightColumns = `id, user_id, type, title, description, is_read, created_at`

func scanInsight(row interface{ Scan(...any) error }) (core.Insight, error) {
	var (
		in        core.Insight
		createdAt string
	)
	err := row.Scan(&in.ID, &in.UserID, &in.Type, &in.Title, &in.Description,
		&in.IsRead, &createdAt)
	if err != nil {
		return core.Insight{}, err
	}
	if in.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return core.Insight{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return in, nil
}

func (r *Repository) ListInsights(ctx context.Context, userID string) ([]core.Insight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+insightColumns+` FROM insights WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	var insights []core.Insight
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

func (r *Repository) InsertInsight(ctx context.Context, in core.Insight) (core.Insight, error) {
	stamp(&in.ID, &in.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO insights (`+insightColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Type, in.Title, in.Description, in.IsRead,
		in.CreatedAt.Format(timeFormat))
	if err != nil {
		return core.Insight{}, fmt.Errorf("insert insight: %w", err)
	}
	return in, nil
}

func (r *Repository) SetInsightRead(ctx context.Context, userID, id string, read bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE insights SET is_read = ? WHERE id = ? AND user_id = ?`, read, id, userID)
	if err != nil {
		return fmt.Errorf("set insight read: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteInsight(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM insights WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	return requireAffected(res)
}

// --- chat messages ---

const chatColumns = `id, user_id, sender, message_text, conversation_id, created_at`

// ListChatMessages returns a conversation oldest-first, the display order.
// rowid breaks ties for messages stored in the same instant.
func (r *Repository) ListChatMessages(ctx context.Context, userID, conversationID string) ([]core.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+chatColumns+` FROM chat_messages WHERE user_id = ? AND conversation_id = ? ORDER BY created_at ASC, rowid ASC`,
		userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []core.ChatMessage
	for rows.Next() {
		var (
			m         core.ChatMessage
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.ConversationID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		if m.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *Repository) InsertChatMessage(ctx context.Context, m core.ChatMessage) (core.ChatMessage, error) {
	stamp(&m.ID, &m.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (`+chatColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Sender, m.Text, m.ConversationID, m.CreatedAt.Format(timeFormat))
	if err != nil {
		return core.ChatMessage{}, fmt.Errorf("insert chat message: %w", err)
	}
	return m, nil
}

// --- bank accounts ---

const accountColumns = `id, user_id, bank_name, account_type, last_four, is_connected, last_synced, sync_error, created_at`

func scanAccount(row interface{ Scan(...any) error }) (core.BankAccount, error) {
	var (
		a          core.BankAccount
		lastSynced sql.NullString
		syncError  sql.NullString
		createdAt  string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.BankName, &a.AccountType, &a.LastFour,
		&a.Connected, &lastSynced, &syncError, &createdAt)
	if err != nil {
		return core.BankAccount{}, err
	}
	if lastSynced.Valid {
		t, err := time.Parse(timeFormat, lastSynced.String)
		if err != nil {
			return core.BankAccount{}, fmt.Errorf("parse last_synced %q: %w", lastSynced.String, err)
		}
		a.LastSynced = &t
	}
	a.SyncError = syncError.String
	if a.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return core.BankAccount{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return a, nil
}

func (r *Repository) ListBankAccounts(ctx context.Context, userID string) ([]core.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.BankAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *Repository) GetBankAccount(ctx context.Context, userID, id string) (core.BankAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BankAccount{}, ErrNotFound
	}
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

func (r *Repository) InsertBankAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	stamp(&a.ID, &a.CreatedAt)
	var lastSynced any
	if a.LastSynced != nil {
		lastSynced = a.LastSynced.Format(timeFormat)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bank_accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.BankName, a.AccountType, a.LastFour, a.Connected,
		lastSynced, nullable(a.SyncError), a.CreatedAt.Format(timeFormat))
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("insert bank account: %w", err)
	}
	return a, nil
}

func (r *Repository) SetAccountConnected(ctx context.Context, userID, id string, connected bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bank_accounts SET is_connected = ? WHERE id = ? AND user_id = ?`,
		connected, id, userID)
	if err != nil {
		return fmt.Errorf("set account connected: %w", err)
	}
	return requireAffected(res)
}

// MarkAccountSynced stamps last_synced and clears any previous sync error.
func (r *Repository) MarkAccountSynced(ctx context.Context, userID, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bank_accounts SET last_synced = ?, sync_error = NULL WHERE id = ? AND user_id = ?`,
		at.Format(timeFormat), id, userID)
	if err != nil {
		return fmt.Errorf("mark account synced: %w", err)
	}
	return requireAffected(res)
}

// RecordSyncError stores the failure message on the account without touching
// last_synced.
func (r *Repository) RecordSyncError(ctx context.Context, userID, id, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bank_accounts SET sync_error = ? WHERE id = ? AND user_id = ?`,
		message, id, userID)
	if err != nil {
		return fmt.Errorf("record sync error: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBankAccount(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM bank_accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	return requireAffected(res)
}

// --- helpers ---

func stamp(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
