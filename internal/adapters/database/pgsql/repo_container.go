// Package pgsql implements the repository ports on PostgreSQL via pgx.
package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all repositories to the shared connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		VerificationRepo: newPgxVerificationRepository(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		FiscalYearRepo:   newPgxFiscalYearRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
