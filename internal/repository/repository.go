package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("already exists")
)

const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO ledger.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapWriteError(err))
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM ledger.users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user that has an email address
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, email, created_at, updated_at
		FROM ledger.users
		WHERE email <> ''
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO ledger.accounts (user_id, balance, currency, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.Balance, account.Currency, account.Type).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindAccountByID returns the owner of an account
func (r *Repository) FindAccountByID(ctx context.Context, accountID int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM ledger.accounts WHERE id = $1`, accountID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find account: %w", err)
	}
	return userID, nil
}

// CreateTransaction records a transaction and applies it to the account balance
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO ledger.transactions (account_id, amount, description, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err = dbTx.QueryRowContext(ctx, query, tx.AccountID, tx.Amount, tx.Description, tx.OccurredAt).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE ledger.accounts SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		tx.Amount, tx.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateARAPItem records a receivable or payable
func (r *Repository) CreateARAPItem(ctx context.Context, item *models.ARAPItem) error {
	query := `
		INSERT INTO ledger.arap_items (user_id, kind, counterparty, amount, age_days, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		item.UserID, string(item.Kind), item.Counterparty, item.Amount, item.AgeDays, item.Status).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s item: %w", item.Kind, err)
	}
	return nil
}

// ListAccounts returns all accounts of a user
func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `
		SELECT id, user_id, balance, currency, type, created_at, updated_at
		FROM ledger.accounts
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Balance, &a.Currency, &a.Type, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ListExpenseTransactions returns outflows on the user's accounts dated at or after since
func (r *Repository) ListExpenseTransactions(ctx context.Context, userID int64, since time.Time) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.amount, t.description, t.occurred_at, t.created_at
		FROM ledger.transactions t
		JOIN ledger.accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.amount <= 0 AND t.occurred_at >= $2
		ORDER BY t.occurred_at`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Description, &t.OccurredAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListARAPItems returns a user's receivables or payables
func (r *Repository) ListARAPItems(ctx context.Context, userID int64, kind models.ARAPKind) ([]models.ARAPItem, error) {
	query := `
		SELECT id, user_id, kind, counterparty, amount, age_days, status, created_at
		FROM ledger.arap_items
		WHERE user_id = $1 AND kind = $2
		ORDER BY age_days`
	rows, err := r.db.QueryContext(ctx, query, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", kind, err)
	}
	defer rows.Close()

	var items []models.ARAPItem
	for rows.Next() {
		var it models.ARAPItem
		var k string
		if err := rows.Scan(&it.ID, &it.UserID, &k, &it.Counterparty, &it.Amount, &it.AgeDays, &it.Status, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s item: %w", kind, err)
		}
		it.Kind = models.ARAPKind(k)
		items = append(items, it)
	}
	return items, rows.Err()
}
