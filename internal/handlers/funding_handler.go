package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

type CreateDepositRequest struct {
	AccountID    string          `json:"account_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Method       string          `json:"method" binding:"required"`
	SenderNumber string          `json:"sender_number"`
	TrxID        string          `json:"trx_id" binding:"required"`
	WantsBonus   *bool           `json:"wants_bonus"`
}

func (h *Handler) CreateDeposit(c *gin.Context) {
	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	// Bonus is opt-out, omitting the field keeps it.
	wantsBonus := true
	if req.WantsBonus != nil {
		wantsBonus = *req.WantsBonus
	}

	dep, err := h.Deposits.CreateDepositRequest(services.CreateDepositDTO{
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		Method:       req.Method,
		SenderNumber: req.SenderNumber,
		TrxID:        req.TrxID,
		WantsBonus:   wantsBonus,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(dep, "Deposit request created"))
}

func (h *Handler) ListDeposits(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.Deposits.List(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ApproveDeposit(c *gin.Context) {
	acct, err := h.Deposits.ApproveDeposit(c.Param("id"), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(acct, "Deposit approved"))
}

func (h *Handler) RejectDeposit(c *gin.Context) {
	if err := h.Deposits.RejectDeposit(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Deposit rejected"))
}

type CreateWithdrawalRequest struct {
	AccountID    string          `json:"account_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Method       string          `json:"method" binding:"required"`
	WalletNumber string          `json:"wallet_number" binding:"required"`
	Pin          string          `json:"pin" binding:"required"`
}

func (h *Handler) CreateWithdrawal(c *gin.Context) {
	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	wd, err := h.Withdrawals.CreateWithdrawalRequest(services.CreateWithdrawalDTO{
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		Method:       req.Method,
		WalletNumber: req.WalletNumber,
		Pin:          req.Pin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(wd, "Withdrawal request created"))
}

func (h *Handler) ListWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.Withdrawals.List(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ApproveWithdrawal(c *gin.Context) {
	acct, err := h.Withdrawals.ApproveWithdrawal(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(acct, "Withdrawal approved"))
}

type RejectWithdrawalRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) RejectWithdrawal(c *gin.Context) {
	var req RejectWithdrawalRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Withdrawals.RejectWithdrawal(c.Param("id"), req.Comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdrawal rejected"))
}

func (h *Handler) ListPaymentNumbers(c *gin.Context) {
	numbers, err := h.Settings.ListPaymentNumbers(true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(numbers, "Payment numbers fetched"))
}
