package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/core/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/handlers"
	"github.com/hagglund/bokforing_backend/internal/middleware"
)

// --- Mock VerificationService ---
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) CreateVerification(ctx context.Context, userID string, req dto.CreateVerificationRequest) (*domain.Verification, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *MockVerificationService) GetVerificationByID(ctx context.Context, userID string, verificationID string) (*domain.Verification, error) {
	args := m.Called(ctx, userID, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *MockVerificationService) ListVerifications(ctx context.Context, userID string, fiscalYearID string) ([]domain.Verification, error) {
	args := m.Called(ctx, userID, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Verification), args.Error(1)
}

func (m *MockVerificationService) ReplaceTransactions(ctx context.Context, userID string, verificationID string, req dto.ReplaceTransactionsRequest) (*domain.Verification, error) {
	args := m.Called(ctx, userID, verificationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *MockVerificationService) DeleteVerification(ctx context.Context, userID string, verificationID string) error {
	args := m.Called(ctx, userID, verificationID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.VerificationSvc = (*MockVerificationService)(nil)

// --- Test Suite ---
type VerificationHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockSvc   *MockVerificationService
	jwtSecret string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *VerificationHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "bokforing-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *VerificationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockSvc = new(MockVerificationService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterVerificationRoutes(v1, suite.mockSvc)
}

func (suite *VerificationHandlerTestSuite) authedRequest(method, url string, userID string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		suite.Require().NoError(err)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- Test Cases ---

func (suite *VerificationHandlerTestSuite) TestCreateVerification_Success() {
	userID := uuid.NewString()
	verificationID := uuid.NewString()

	reqBody := dto.CreateVerificationRequest{
		Name:        "Office supplies",
		Date:        "2026-03-14",
		Type:        domain.TypeDirectPaymentOut,
		Amount:      decimal.NewFromFloat(125.00),
		Code:        "SEK",
		AccountFrom: 1930,
		AccountTo:   4010,
	}

	created := &domain.Verification{
		VerificationID: verificationID,
		UserID:         userID,
		FiscalYearID:   uuid.NewString(),
		Name:           "Office supplies",
		Date:           time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Type:           domain.TypeDirectPaymentOut,
		Transactions: []domain.Transaction{
			{AccountNumber: 1930, Currency: domain.Money{Amount: -12500, Code: "SEK"}},
			{AccountNumber: 4010, Currency: domain.Money{Amount: 10000, Code: "SEK"}},
			{AccountNumber: 2640, Currency: domain.Money{Amount: 2500, Code: "SEK"}},
		},
	}

	suite.mockSvc.On("CreateVerification",
		mock.Anything,
		userID,
		mock.MatchedBy(func(r dto.CreateVerificationRequest) bool {
			return r.Name == reqBody.Name && r.AccountFrom == 1930 && r.AccountTo == 4010
		}),
	).Return(created, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/verifications", userID, reqBody))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.VerificationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(verificationID, resp.VerificationID)
	suite.Equal("2026-03-14", resp.Date)
	suite.Len(resp.Transactions, 3)
	suite.Equal(int64(-12500), resp.Transactions[0].Currency.Amount)

	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *VerificationHandlerTestSuite) TestCreateVerification_ValidationViolations() {
	userID := uuid.NewString()

	reqBody := dto.CreateVerificationRequest{
		Name:        "Broken event",
		Date:        "2026-03-14",
		Type:        "NOT_A_TYPE",
		Amount:      decimal.NewFromInt(10),
		Code:        "SEK",
		AccountFrom: 1930,
		AccountTo:   4010,
	}

	validationErr := &services.ValidationFailedError{
		Violations: []domain.ValidationError{{Kind: domain.ErrorTypeInvalid}},
	}
	suite.mockSvc.On("CreateVerification", mock.Anything, userID, mock.Anything).
		Return(nil, validationErr).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/verifications", userID, reqBody))

	suite.Equal(http.StatusBadRequest, w.Code)

	var resp struct {
		Error      string                   `json:"error"`
		Violations []domain.ValidationError `json:"violations"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Violations, 1)
	suite.Equal(domain.ErrorTypeInvalid, resp.Violations[0].Kind)

	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *VerificationHandlerTestSuite) TestCreateVerification_MalformedBody() {
	userID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/verifications", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "CreateVerification")
}

func (suite *VerificationHandlerTestSuite) TestGetVerification_NotFound() {
	userID := uuid.NewString()
	verificationID := uuid.NewString()

	suite.mockSvc.On("GetVerificationByID", mock.Anything, userID, verificationID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/verifications/"+verificationID, userID, nil))

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *VerificationHandlerTestSuite) TestListVerifications_RequiresFiscalYear() {
	userID := uuid.NewString()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/verifications", userID, nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "ListVerifications")
}

func (suite *VerificationHandlerTestSuite) TestListVerifications_Success() {
	userID := uuid.NewString()
	fiscalYearID := uuid.NewString()

	listed := []domain.Verification{
		{
			VerificationID: uuid.NewString(),
			UserID:         userID,
			FiscalYearID:   fiscalYearID,
			Name:           "Rent",
			Date:           time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Type:           domain.TypeDirectPaymentOut,
		},
	}
	suite.mockSvc.On("ListVerifications", mock.Anything, userID, fiscalYearID).
		Return(listed, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/verifications?fiscalYearID="+fiscalYearID, userID, nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListVerificationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Verifications, 1)
	suite.Equal("Rent", resp.Verifications[0].Name)

	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *VerificationHandlerTestSuite) TestDeleteVerification_Success() {
	userID := uuid.NewString()
	verificationID := uuid.NewString()

	suite.mockSvc.On("DeleteVerification", mock.Anything, userID, verificationID).
		Return(nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodDelete, "/api/v1/verifications/"+verificationID, userID, nil))

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *VerificationHandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/verifications?fiscalYearID=x", nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "ListVerifications")
}

// --- Run Test Suite ---
func TestVerificationHandler(t *testing.T) {
	suite.Run(t, new(VerificationHandlerTestSuite))
}
