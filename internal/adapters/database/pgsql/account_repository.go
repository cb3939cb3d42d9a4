package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
)

// PgxAccountRepository persists the chart of accounts.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, user_id, account_number, name,
	vat_account_number, reverse_vat_account_number, vat_percentage, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	var vatPercentage decimal.NullDecimal
	if account.VATPercentage != nil {
		vatPercentage = decimal.NewNullDecimal(*account.VATPercentage)
	}
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Number,
		account.Name,
		account.VATAccountNumber,
		account.ReverseVATAccountNumber,
		vatPercentage,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %d: %w", account.Number, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, userID string, number int) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND account_number = $2;
	`
	account, err := scanAccount(r.pool.QueryRow(ctx, query, userID, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %d: %w", number, err)
	}
	return account, nil
}

func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY account_number;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $3,
		    vat_account_number = $4,
		    reverse_vat_account_number = $5,
		    vat_percentage = $6,
		    is_active = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE user_id = $1 AND account_number = $2;
	`
	var vatPercentage decimal.NullDecimal
	if account.VATPercentage != nil {
		vatPercentage = decimal.NewNullDecimal(*account.VATPercentage)
	}
	tag, err := r.pool.Exec(ctx, query,
		account.UserID,
		account.Number,
		account.Name,
		account.VATAccountNumber,
		account.ReverseVATAccountNumber,
		vatPercentage,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.Number, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account       domain.Account
		vatPercentage decimal.NullDecimal
	)
	err := row.Scan(
		&account.AccountID,
		&account.UserID,
		&account.Number,
		&account.Name,
		&account.VATAccountNumber,
		&account.ReverseVATAccountNumber,
		&vatPercentage,
		&account.IsActive,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if vatPercentage.Valid {
		d := vatPercentage.Decimal
		account.VATPercentage = &d
	}
	return &account, nil
}
