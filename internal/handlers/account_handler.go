package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

type RegisterAccountRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	ReferralCode string `json:"referral_code"`
}

func (h *Handler) RegisterAccount(c *gin.Context) {
	var req RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	acct, err := h.Accounts.Register(services.RegisterDTO{
		Name:         req.Name,
		Phone:        req.Phone,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(acct, "Account created"))
}

func (h *Handler) GetAccount(c *gin.Context) {
	acct, err := h.Accounts.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(acct, "Account fetched"))
}

type SetWithdrawPinRequest struct {
	CurrentPin string `json:"current_pin"`
	NewPin     string `json:"new_pin" binding:"required"`
}

func (h *Handler) SetWithdrawPin(c *gin.Context) {
	var req SetWithdrawPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	if err := h.Accounts.SetWithdrawPin(c.Param("id"), req.CurrentPin, req.NewPin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdraw PIN updated"))
}

func (h *Handler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.Helper.ListTransactions(c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.Notify.List(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(notifications, "Notifications fetched"))
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.Notify.MarkRead(c.Param("id"), c.Param("notificationId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Notification marked read"))
}

func (h *Handler) ListReferrals(c *gin.Context) {
	referred, err := h.Affiliate.ListReferrals(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(referred, "Referrals fetched"))
}

func (h *Handler) ListRewards(c *gin.Context) {
	rewards, err := h.Vip.ListRewards(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rewards, "Rewards fetched"))
}

func (h *Handler) ClaimReward(c *gin.Context) {
	acct, err := h.Vip.ClaimReward(c.Param("id"), c.Param("rewardId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(acct, "Reward claimed"))
}

func (h *Handler) ClaimAffiliateEarnings(c *gin.Context) {
	acct, err := h.Affiliate.ClaimEarnings(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(acct, "Affiliate earnings claimed"))
}
