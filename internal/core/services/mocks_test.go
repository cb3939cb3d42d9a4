package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
)

// --- Mock VerificationRepository ---

type MockVerificationRepository struct {
	mock.Mock
}

var _ portsrepo.VerificationRepository = (*MockVerificationRepository)(nil)

func (m *MockVerificationRepository) SaveVerification(ctx context.Context, verification domain.Verification) error {
	args := m.Called(ctx, verification)
	return args.Error(0)
}

func (m *MockVerificationRepository) FindVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error) {
	args := m.Called(ctx, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *MockVerificationRepository) ListVerificationsByFiscalYear(ctx context.Context, userID string, fiscalYearID string) ([]domain.Verification, error) {
	args := m.Called(ctx, userID, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Verification), args.Error(1)
}

func (m *MockVerificationRepository) ReplaceTransactions(ctx context.Context, verificationID string, transactions []domain.Transaction, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, verificationID, transactions, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockVerificationRepository) DeleteVerification(ctx context.Context, verificationID string) error {
	args := m.Called(ctx, verificationID)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, userID string, number int) (*domain.Account, error) {
	args := m.Called(ctx, userID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock AccountSvc ---

type MockAccountSvc struct {
	mock.Mock
}

var _ portssvc.AccountSvc = (*MockAccountSvc)(nil)

func (m *MockAccountSvc) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountByNumber(ctx context.Context, userID string, number int) (*domain.Account, error) {
	args := m.Called(ctx, userID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) UpdateAccount(ctx context.Context, userID string, number int, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, number, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ResolveAccount(ctx context.Context, userID string, number int) (*domain.Account, error) {
	args := m.Called(ctx, userID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock FiscalYearSvc ---

type MockFiscalYearSvc struct {
	mock.Mock
}

var _ portssvc.FiscalYearSvc = (*MockFiscalYearSvc)(nil)

func (m *MockFiscalYearSvc) CreateFiscalYear(ctx context.Context, userID string, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearSvc) ListFiscalYears(ctx context.Context, userID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearSvc) GetFiscalYearForDate(ctx context.Context, userID string, date time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

// --- Mock UserSvc ---

type MockUserSvc struct {
	mock.Mock
}

var _ portssvc.UserSvc = (*MockUserSvc)(nil)

func (m *MockUserSvc) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockUserSvc) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) VerifyPassword(ctx context.Context, username string, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) VerifyAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) RotateAPIKey(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserSvc) StoreRefreshToken(ctx context.Context, userID string, refreshToken string, expiry time.Time) error {
	args := m.Called(ctx, userID, refreshToken, expiry)
	return args.Error(0)
}

// --- Mock FiscalYearRepository ---

type MockFiscalYearRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalYearRepository = (*MockFiscalYearRepository)(nil)

func (m *MockFiscalYearRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

func (m *MockFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) FindFiscalYearForDate(ctx context.Context, userID string, date time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) ListFiscalYearsByUser(ctx context.Context, userID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.User, error) {
	args := m.Called(ctx, apiKeyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAPIKeyHash(ctx context.Context, userID string, apiKeyHash string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, apiKeyHash, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry time.Time, updatedAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiry, updatedAt)
	return args.Error(0)
}
