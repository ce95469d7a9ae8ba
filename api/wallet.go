package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/service/wallet"
	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	service wallet.WalletUseCase
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type transactionResponse struct {
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	BookingID   *int64 `json:"booking_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func NewWalletHandler(service wallet.WalletUseCase) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) Register(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	router.Use(requireAuth)
	router.GET("/", h.get)
	router.GET("/balance", h.balance)
	router.POST("/check", h.check)
	router.POST("/add", h.addFunds)
}

func (h *WalletHandler) get(c *gin.Context) {
	account, _ := accountID(c)

	w, err := h.service.GetWallet(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"balance":      w.Balance,
		"transactions": toTransactionResponses(w.Transactions),
	}})
}

func (h *WalletHandler) balance(c *gin.Context) {
	account, _ := accountID(c)

	balance, err := h.service.Balance(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"balance": balance}})
}

func (h *WalletHandler) check(c *gin.Context) {
	account, _ := accountID(c)

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.service.CheckBalance(c.Request.Context(), account, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h *WalletHandler) addFunds(c *gin.Context) {
	account, _ := accountID(c)

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	w, err := h.service.AddFunds(c.Request.Context(), account, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"newBalance": w.Balance}})
}

func toTransactionResponses(transactions []domain.WalletTransaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, transactionResponse{
			Type:        string(t.Type),
			Amount:      t.Amount,
			Description: t.Description,
			BookingID:   t.BookingID,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
