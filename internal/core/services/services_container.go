package services

import (
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.FiscalYear = NewFiscalYearService(repos.FiscalYearRepo)
	container.User = NewUserService(repos.UserRepo)

	container.Verification = NewVerificationService(repos.VerificationRepo, container.Account, container.FiscalYear, container.User)
	container.StatementImport = NewStatementImportService(repos.VerificationRepo, container.Account, container.FiscalYear, container.User)

	container.Auth = NewAuthService(cfg, container.User)

	return container
}
