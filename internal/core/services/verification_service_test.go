package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	"github.com/hagglund/bokforing_backend/internal/core/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
)

const (
	testUserID       = "user-1"
	testFiscalYearID = "fy-2026"
)

func testFiscalYear() *domain.FiscalYear {
	return &domain.FiscalYear{
		FiscalYearID: testFiscalYearID,
		UserID:       testUserID,
		From:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func testUser() *domain.User {
	return &domain.User{
		UserID:    testUserID,
		Username:  "hagglund",
		LocalCode: "SEK",
	}
}

func testBankAccount() *domain.Account {
	return &domain.Account{AccountID: "acc-1920", UserID: testUserID, Number: 1920, Name: "Bank", IsActive: true}
}

func testExpenseAccount() *domain.Account {
	p := decimal.NewFromFloat(0.25)
	vatNumber := 2641
	return &domain.Account{
		AccountID:        "acc-4010",
		UserID:           testUserID,
		Number:           4010,
		Name:             "Varuinköp",
		VATAccountNumber: &vatNumber,
		IsActive:         true,
		VATAccount:       &domain.Account{Number: 2641, VATPercentage: &p},
	}
}

func createRequest() dto.CreateVerificationRequest {
	return dto.CreateVerificationRequest{
		Name:        "Office supplies",
		Date:        "2026-03-14",
		Type:        domain.TypeDirectPaymentOut,
		Amount:      decimal.NewFromInt(10),
		Code:        "SEK",
		AccountFrom: 1920,
		AccountTo:   4010,
	}
}

func TestVerificationService_CreateVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a balanced verification with vat decomposition", func(t *testing.T) {
		verificationRepo := new(MockVerificationRepository)
		accountSvc := new(MockAccountSvc)
		fiscalYearSvc := new(MockFiscalYearSvc)
		userSvc := new(MockUserSvc)

		fiscalYearSvc.On("GetFiscalYearForDate", ctx, testUserID, mock.AnythingOfType("time.Time")).Return(testFiscalYear(), nil)
		userSvc.On("GetUserByID", ctx, testUserID).Return(testUser(), nil)
		accountSvc.On("ResolveAccount", ctx, testUserID, 1920).Return(testBankAccount(), nil)
		accountSvc.On("ResolveAccount", ctx, testUserID, 4010).Return(testExpenseAccount(), nil)
		verificationRepo.On("SaveVerification", ctx, mock.AnythingOfType("domain.Verification")).Return(nil)

		svc := services.NewVerificationService(verificationRepo, accountSvc, fiscalYearSvc, userSvc)
		verification, err := svc.CreateVerification(ctx, testUserID, createRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, verification.VerificationID)
		assert.Equal(t, testFiscalYearID, verification.FiscalYearID)
		require.Len(t, verification.Transactions, 3)
		assert.Equal(t, int64(-1000), verification.Transactions[0].Currency.Amount)
		assert.Equal(t, int64(800), verification.Transactions[1].Currency.Amount)
		assert.Equal(t, int64(200), verification.Transactions[2].Currency.Amount)

		verificationRepo.AssertExpectations(t)
		accountSvc.AssertExpectations(t)
	})

	t.Run("no fiscal year for the date", func(t *testing.T) {
		verificationRepo := new(MockVerificationRepository)
		accountSvc := new(MockAccountSvc)
		fiscalYearSvc := new(MockFiscalYearSvc)
		userSvc := new(MockUserSvc)

		fiscalYearSvc.On("GetFiscalYearForDate", ctx, testUserID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound)

		svc := services.NewVerificationService(verificationRepo, accountSvc, fiscalYearSvc, userSvc)
		_, err := svc.CreateVerification(ctx, testUserID, createRequest())

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		verificationRepo.AssertNotCalled(t, "SaveVerification", mock.Anything, mock.Anything)
	})

	t.Run("structural violations are accumulated", func(t *testing.T) {
		verificationRepo := new(MockVerificationRepository)
		accountSvc := new(MockAccountSvc)
		fiscalYearSvc := new(MockFiscalYearSvc)
		userSvc := new(MockUserSvc)

		fiscalYearSvc.On("GetFiscalYearForDate", ctx, testUserID, mock.AnythingOfType("time.Time")).Return(testFiscalYear(), nil)
		userSvc.On("GetUserByID", ctx, testUserID).Return(testUser(), nil)
		accountSvc.On("ResolveAccount", ctx, testUserID, 1920).Return(testBankAccount(), nil)
		accountSvc.On("ResolveAccount", ctx, testUserID, 4010).Return(testExpenseAccount(), nil)

		req := createRequest()
		req.Type = "NOT_A_TYPE"

		svc := services.NewVerificationService(verificationRepo, accountSvc, fiscalYearSvc, userSvc)
		_, err := svc.CreateVerification(ctx, testUserID, req)

		var validationErr *services.ValidationFailedError
		require.ErrorAs(t, err, &validationErr)
		assert.Len(t, validationErr.Violations, 1)
		assert.Equal(t, domain.ErrorTypeInvalid, validationErr.Violations[0].Kind)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		verificationRepo.AssertNotCalled(t, "SaveVerification", mock.Anything, mock.Anything)
	})
}

func TestVerificationService_GetVerificationByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner gets the verification", func(t *testing.T) {
		verificationRepo := new(MockVerificationRepository)
		stored := &domain.Verification{VerificationID: "v-1", UserID: testUserID}
		verificationRepo.On("FindVerificationByID", ctx, "v-1").Return(stored, nil)

		svc := services.NewVerificationService(verificationRepo, new(MockAccountSvc), new(MockFiscalYearSvc), new(MockUserSvc))
		got, err := svc.GetVerificationByID(ctx, testUserID, "v-1")

		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("another user's verification reads as not found", func(t *testing.T) {
		verificationRepo := new(MockVerificationRepository)
		stored := &domain.Verification{VerificationID: "v-1", UserID: "someone-else"}
		verificationRepo.On("FindVerificationByID", ctx, "v-1").Return(stored, nil)

		svc := services.NewVerificationService(verificationRepo, new(MockAccountSvc), new(MockFiscalYearSvc), new(MockUserSvc))
		_, err := svc.GetVerificationByID(ctx, testUserID, "v-1")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestVerificationService_ReplaceTransactions(t *testing.T) {
	ctx := context.Background()

	verificationRepo := new(MockVerificationRepository)
	accountSvc := new(MockAccountSvc)
	userSvc := new(MockUserSvc)

	stored := &domain.Verification{
		VerificationID: "v-1",
		UserID:         testUserID,
		FiscalYearID:   testFiscalYearID,
		Name:           "Office supplies",
		Date:           time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Type:           domain.TypeDirectPaymentOut,
		Transactions: []domain.Transaction{
			{AccountNumber: 1920, Currency: domain.Money{Amount: -1000, Code: "SEK"}},
			{AccountNumber: 4010, Currency: domain.Money{Amount: 1000, Code: "SEK"}},
		},
	}
	verificationRepo.On("FindVerificationByID", ctx, "v-1").Return(stored, nil)
	userSvc.On("GetUserByID", ctx, testUserID).Return(testUser(), nil)
	accountSvc.On("ResolveAccount", ctx, testUserID, 1920).Return(testBankAccount(), nil)
	accountSvc.On("ResolveAccount", ctx, testUserID, 4010).Return(testExpenseAccount(), nil)
	verificationRepo.On("ReplaceTransactions", ctx, "v-1", mock.AnythingOfType("[]domain.Transaction"), testUserID, mock.AnythingOfType("time.Time")).Return(nil)

	svc := services.NewVerificationService(verificationRepo, accountSvc, new(MockFiscalYearSvc), userSvc)
	updated, err := svc.ReplaceTransactions(ctx, testUserID, "v-1", dto.ReplaceTransactionsRequest{
		Amount:      decimal.NewFromInt(20),
		Code:        "SEK",
		AccountFrom: 1920,
		AccountTo:   4010,
	})

	require.NoError(t, err)
	require.Len(t, updated.Transactions, 3)
	assert.Equal(t, int64(-2000), updated.Transactions[0].Currency.Amount)
	verificationRepo.AssertExpectations(t)
}

func TestVerificationService_DeleteVerification(t *testing.T) {
	ctx := context.Background()

	verificationRepo := new(MockVerificationRepository)
	stored := &domain.Verification{VerificationID: "v-1", UserID: testUserID}
	verificationRepo.On("FindVerificationByID", ctx, "v-1").Return(stored, nil)
	verificationRepo.On("DeleteVerification", ctx, "v-1").Return(nil)

	svc := services.NewVerificationService(verificationRepo, new(MockAccountSvc), new(MockFiscalYearSvc), new(MockUserSvc))
	err := svc.DeleteVerification(ctx, testUserID, "v-1")

	require.NoError(t, err)
	verificationRepo.AssertExpectations(t)
}
