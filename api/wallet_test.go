package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/service/wallet"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockWalletUseCase is a mock implementation of wallet.WalletUseCase
type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) GetWallet(ctx context.Context, accountID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) Balance(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletUseCase) CheckBalance(ctx context.Context, accountID, amount int64) (*wallet.BalanceCheck, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.BalanceCheck), args.Error(1)
}

func (m *MockWalletUseCase) AddFunds(ctx context.Context, accountID, amount int64) (*domain.Wallet, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func TestWalletHandler_get(t *testing.T) {
	mockService := &MockWalletUseCase{}
	handler := NewWalletHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/wallet", nil)
	c.Set(accountIDKey, int64(7))

	wal := &domain.Wallet{
		Balance: 47250,
		Transactions: []domain.WalletTransaction{
			{Type: domain.TransactionDebit, Amount: 2750, Description: "Flight booking - AI101 (Mumbai to Delhi)", CreatedAt: time.Now()},
			{Type: domain.TransactionCredit, Amount: 50000, Description: "Initial wallet balance", CreatedAt: time.Now()},
		},
	}
	mockService.On("GetWallet", c.Request.Context(), int64(7)).Return(wal, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Balance      int64                 `json:"balance"`
			Transactions []transactionResponse `json:"transactions"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(47250), resp.Data.Balance)
	assert.Len(t, resp.Data.Transactions, 2)
	assert.Equal(t, "debit", resp.Data.Transactions[0].Type)
	mockService.AssertExpectations(t)
}

func TestWalletHandler_balance(t *testing.T) {
	mockService := &MockWalletUseCase{}
	handler := NewWalletHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/wallet/balance", nil)
	c.Set(accountIDKey, int64(7))

	mockService.On("Balance", c.Request.Context(), int64(7)).Return(int64(50000), nil)

	handler.balance(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Balance int64 `json:"balance"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(50000), resp.Data.Balance)
}

func TestWalletHandler_check(t *testing.T) {
	mockService := &MockWalletUseCase{}
	handler := NewWalletHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(amountRequest{Amount: 2750})
	c.Request = httptest.NewRequest("POST", "/wallet/check", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(accountIDKey, int64(7))

	mockService.On("CheckBalance", c.Request.Context(), int64(7), int64(2750)).
		Return(&wallet.BalanceCheck{Sufficient: false, CurrentBalance: 2000, RequiredAmount: 2750, Shortfall: 750}, nil)

	handler.check(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Sufficient bool  `json:"hasSufficientBalance"`
			Shortfall  int64 `json:"shortfall"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Sufficient)
	assert.Equal(t, int64(750), resp.Data.Shortfall)
}

func TestWalletHandler_addFunds(t *testing.T) {
	mockService := &MockWalletUseCase{}
	handler := NewWalletHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(amountRequest{Amount: 5000})
	c.Request = httptest.NewRequest("POST", "/wallet/add", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(accountIDKey, int64(7))

	mockService.On("AddFunds", c.Request.Context(), int64(7), int64(5000)).
		Return(&domain.Wallet{Balance: 55000}, nil)

	handler.addFunds(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			NewBalance int64 `json:"newBalance"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(55000), resp.Data.NewBalance)
}

func TestWalletHandler_addFunds_InvalidAmount(t *testing.T) {
	mockService := &MockWalletUseCase{}
	handler := NewWalletHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(amountRequest{Amount: -100})
	c.Request = httptest.NewRequest("POST", "/wallet/add", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(accountIDKey, int64(7))

	mockService.On("AddFunds", c.Request.Context(), int64(7), int64(-100)).
		Return(nil, domain.ValidationError("amount must be positive"))

	handler.addFunds(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
