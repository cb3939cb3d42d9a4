package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
)

// PgxVerificationRepository persists verifications and their transactions.
type PgxVerificationRepository struct {
	pool *pgxpool.Pool
}

func newPgxVerificationRepository(pool *pgxpool.Pool) *PgxVerificationRepository {
	return &PgxVerificationRepository{pool: pool}
}

var _ portsrepo.VerificationRepository = (*PgxVerificationRepository)(nil)

// SaveVerification stores the verification header and all its transactions in
// one database transaction.
func (r *PgxVerificationRepository) SaveVerification(ctx context.Context, verification domain.Verification) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	headerQuery := `
		INSERT INTO verifications (
			verification_id, user_id, fiscal_year_id, name, internal_name,
			verification_date, verification_type, invoice_id, payment_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, headerQuery,
		verification.VerificationID,
		verification.UserID,
		verification.FiscalYearID,
		verification.Name,
		verification.InternalName,
		verification.Date,
		string(verification.Type),
		verification.InvoiceID,
		verification.PaymentID,
		verification.CreatedAt,
		verification.CreatedBy,
		verification.LastUpdatedAt,
		verification.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification %s: %w", verification.VerificationID, err)
	}

	if err := insertTransactions(ctx, tx, verification.VerificationID, verification.Transactions); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit verification %s: %w", verification.VerificationID, err)
	}
	return nil
}

// insertTransactions batch-inserts the entry list. Position preserves the
// factory's posting order.
func insertTransactions(ctx context.Context, tx pgx.Tx, verificationID string, transactions []domain.Transaction) error {
	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO verification_transactions (
			verification_id, position, account_number, amount, currency_code,
			local_amount, local_currency_code, exchange_rate
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for i, txn := range transactions {
		var localCode *string
		if txn.Currency.LocalCode != nil {
			s := string(*txn.Currency.LocalCode)
			localCode = &s
		}
		var rate decimal.NullDecimal
		if txn.Currency.ExchangeRate != nil {
			rate = decimal.NewNullDecimal(*txn.Currency.ExchangeRate)
		}
		batch.Queue(txnQuery,
			verificationID,
			i,
			txn.AccountNumber,
			txn.Currency.Amount,
			string(txn.Currency.Code),
			txn.Currency.LocalAmount,
			localCode,
			rate,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range transactions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert transaction for verification %s: %w", verificationID, err)
		}
	}
	return nil
}

// FindVerificationByID loads the verification and its transactions in posting
// order.
func (r *PgxVerificationRepository) FindVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error) {
	headerQuery := `
		SELECT verification_id, user_id, fiscal_year_id, name, internal_name,
		       verification_date, verification_type, invoice_id, payment_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM verifications
		WHERE verification_id = $1;
	`
	verification, err := scanVerification(r.pool.QueryRow(ctx, headerQuery, verificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find verification %s: %w", verificationID, err)
	}

	transactions, err := r.loadTransactions(ctx, []string{verificationID})
	if err != nil {
		return nil, err
	}
	verification.Transactions = transactions[verificationID]
	return verification, nil
}

// ListVerificationsByFiscalYear returns the user's verifications of one fiscal
// year, newest first, transactions included.
func (r *PgxVerificationRepository) ListVerificationsByFiscalYear(ctx context.Context, userID string, fiscalYearID string) ([]domain.Verification, error) {
	query := `
		SELECT verification_id, user_id, fiscal_year_id, name, internal_name,
		       verification_date, verification_type, invoice_id, payment_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM verifications
		WHERE user_id = $1 AND fiscal_year_id = $2
		ORDER BY verification_date DESC, created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, userID, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to query verifications: %w", err)
	}
	defer rows.Close()

	verifications := []domain.Verification{}
	ids := []string{}
	for rows.Next() {
		verification, err := scanVerification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verification row: %w", err)
		}
		verifications = append(verifications, *verification)
		ids = append(ids, verification.VerificationID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating verification rows: %w", rows.Err())
	}

	if len(ids) == 0 {
		return verifications, nil
	}
	transactionsByID, err := r.loadTransactions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range verifications {
		verifications[i].Transactions = transactionsByID[verifications[i].VerificationID]
	}
	return verifications, nil
}

// ReplaceTransactions swaps the verification's entry list wholesale inside one
// database transaction.
func (r *PgxVerificationRepository) ReplaceTransactions(ctx context.Context, verificationID string, transactions []domain.Transaction, updatedBy string, updatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE verifications
		SET last_updated_at = $2, last_updated_by = $3
		WHERE verification_id = $1;
	`, verificationID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to touch verification %s: %w", verificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM verification_transactions WHERE verification_id = $1;`, verificationID); err != nil {
		return fmt.Errorf("failed to delete transactions of verification %s: %w", verificationID, err)
	}
	if err := insertTransactions(ctx, tx, verificationID, transactions); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction replacement for %s: %w", verificationID, err)
	}
	return nil
}

// DeleteVerification removes the verification and its transactions.
func (r *PgxVerificationRepository) DeleteVerification(ctx context.Context, verificationID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM verification_transactions WHERE verification_id = $1;`, verificationID); err != nil {
		return fmt.Errorf("failed to delete transactions of verification %s: %w", verificationID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM verifications WHERE verification_id = $1;`, verificationID)
	if err != nil {
		return fmt.Errorf("failed to delete verification %s: %w", verificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deletion of verification %s: %w", verificationID, err)
	}
	return nil
}

// loadTransactions fetches the transactions of the given verifications,
// grouped by verification ID, in posting order.
func (r *PgxVerificationRepository) loadTransactions(ctx context.Context, verificationIDs []string) (map[string][]domain.Transaction, error) {
	query := `
		SELECT verification_id, account_number, amount, currency_code,
		       local_amount, local_currency_code, exchange_rate
		FROM verification_transactions
		WHERE verification_id = ANY($1)
		ORDER BY verification_id, position;
	`
	rows, err := r.pool.Query(ctx, query, verificationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.Transaction, len(verificationIDs))
	for rows.Next() {
		var (
			verificationID string
			txn            domain.Transaction
			code           string
			localAmount    sql.NullInt64
			localCode      sql.NullString
			rate           decimal.NullDecimal
		)
		if err := rows.Scan(
			&verificationID,
			&txn.AccountNumber,
			&txn.Currency.Amount,
			&code,
			&localAmount,
			&localCode,
			&rate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txn.Currency.Code = domain.CurrencyCode(code)
		if localAmount.Valid {
			v := localAmount.Int64
			txn.Currency.LocalAmount = &v
		}
		if localCode.Valid {
			c := domain.CurrencyCode(localCode.String)
			txn.Currency.LocalCode = &c
		}
		if rate.Valid {
			d := rate.Decimal
			txn.Currency.ExchangeRate = &d
		}
		result[verificationID] = append(result[verificationID], txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return result, nil
}

// scanVerification reads one verification header row.
func scanVerification(row pgx.Row) (*domain.Verification, error) {
	var (
		verification     domain.Verification
		internalName     sql.NullString
		verificationType string
		invoiceID        sql.NullString
		paymentID        sql.NullString
	)
	err := row.Scan(
		&verification.VerificationID,
		&verification.UserID,
		&verification.FiscalYearID,
		&verification.Name,
		&internalName,
		&verification.Date,
		&verificationType,
		&invoiceID,
		&paymentID,
		&verification.CreatedAt,
		&verification.CreatedBy,
		&verification.LastUpdatedAt,
		&verification.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	verification.Type = domain.VerificationType(verificationType)
	if internalName.Valid {
		verification.InternalName = &internalName.String
	}
	if invoiceID.Valid {
		verification.InvoiceID = &invoiceID.String
	}
	if paymentID.Valid {
		verification.PaymentID = &paymentID.String
	}
	return &verification, nil
}
