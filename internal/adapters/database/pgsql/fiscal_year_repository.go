package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
)

// PgxFiscalYearRepository persists fiscal years.
type PgxFiscalYearRepository struct {
	pool *pgxpool.Pool
}

func newPgxFiscalYearRepository(pool *pgxpool.Pool) *PgxFiscalYearRepository {
	return &PgxFiscalYearRepository{pool: pool}
}

var _ portsrepo.FiscalYearRepository = (*PgxFiscalYearRepository)(nil)

const fiscalYearColumns = `
	fiscal_year_id, user_id, from_date, to_date,
	created_at, created_by, last_updated_at, last_updated_by
`

func (r *PgxFiscalYearRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error {
	query := `
		INSERT INTO fiscal_years (` + fiscalYearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		year.FiscalYearID,
		year.UserID,
		year.From,
		year.To,
		year.CreatedAt,
		year.CreatedBy,
		year.LastUpdatedAt,
		year.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save fiscal year %s: %w", year.FiscalYearID, err)
	}
	return nil
}

func (r *PgxFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE fiscal_year_id = $1;
	`
	year, err := scanFiscalYear(r.pool.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	return year, nil
}

// FindFiscalYearForDate returns the user's fiscal year whose range contains
// the date, inclusive on both ends.
func (r *PgxFiscalYearRepository) FindFiscalYearForDate(ctx context.Context, userID string, date time.Time) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE user_id = $1 AND from_date <= $2 AND to_date >= $2;
	`
	year, err := scanFiscalYear(r.pool.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year for date %s: %w", date.Format("2006-01-02"), err)
	}
	return year, nil
}

func (r *PgxFiscalYearRepository) ListFiscalYearsByUser(ctx context.Context, userID string) ([]domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE user_id = $1
		ORDER BY from_date;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal years: %w", err)
	}
	defer rows.Close()

	years := []domain.FiscalYear{}
	for rows.Next() {
		year, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		years = append(years, *year)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fiscal year rows: %w", rows.Err())
	}
	return years, nil
}

func scanFiscalYear(row pgx.Row) (*domain.FiscalYear, error) {
	var year domain.FiscalYear
	err := row.Scan(
		&year.FiscalYearID,
		&year.UserID,
		&year.From,
		&year.To,
		&year.CreatedAt,
		&year.CreatedBy,
		&year.LastUpdatedAt,
		&year.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &year, nil
}
