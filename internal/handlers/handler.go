package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

// Handler is the REST facade over the ledger services.
type Handler struct {
	Accounts    *services.AccountService
	Deposits    *services.DepositService
	Withdrawals *services.WithdrawalService
	Bets        *services.BetService
	Games       *services.GameService
	Affiliate   *services.AffiliateService
	Vip         *services.VipService
	Settings    *services.SettingsService
	Helper      *services.HelperService
	Notify      *services.NotificationService
	Sms         *services.SmsService
}

func NewHandler(
	accounts *services.AccountService,
	deposits *services.DepositService,
	withdrawals *services.WithdrawalService,
	bets *services.BetService,
	games *services.GameService,
	affiliate *services.AffiliateService,
	vip *services.VipService,
	settings *services.SettingsService,
	helper *services.HelperService,
	notify *services.NotificationService,
	sms *services.SmsService,
) *Handler {
	return &Handler{
		Accounts:    accounts,
		Deposits:    deposits,
		Withdrawals: withdrawals,
		Bets:        bets,
		Games:       games,
		Affiliate:   affiliate,
		Vip:         vip,
		Settings:    settings,
		Helper:      helper,
		Notify:      notify,
		Sms:         sms,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Bengal Bet ledger service"})
	})

	r.POST("/accounts", h.RegisterAccount)
	r.GET("/accounts/:id", h.GetAccount)
	r.PUT("/accounts/:id/withdraw-pin", h.SetWithdrawPin)
	r.GET("/accounts/:id/transactions", h.ListTransactions)
	r.GET("/accounts/:id/notifications", h.ListNotifications)
	r.PUT("/accounts/:id/notifications/:notificationId/read", h.MarkNotificationRead)
	r.GET("/accounts/:id/referrals", h.ListReferrals)
	r.GET("/accounts/:id/rewards", h.ListRewards)
	r.POST("/accounts/:id/rewards/:rewardId/claim", h.ClaimReward)
	r.POST("/accounts/:id/affiliate/claim", h.ClaimAffiliateEarnings)

	r.POST("/deposits", h.CreateDeposit)
	r.GET("/deposits", h.ListDeposits)
	r.POST("/deposits/:id/approve", h.ApproveDeposit)
	r.POST("/deposits/:id/reject", h.RejectDeposit)

	r.POST("/withdrawals", h.CreateWithdrawal)
	r.GET("/withdrawals", h.ListWithdrawals)
	r.POST("/withdrawals/:id/approve", h.ApproveWithdrawal)
	r.POST("/withdrawals/:id/reject", h.RejectWithdrawal)

	r.POST("/wagers", h.PlaceWager)
	r.POST("/wagers/:id/settle", h.SettleOutcome)
	r.POST("/play", h.Play)
	r.GET("/accounts/:id/bets", h.ListBets)

	r.GET("/payment-numbers", h.ListPaymentNumbers)

	admin := r.Group("/admin")
	{
		admin.GET("/settings/bonus-tiers", h.GetBonusTiers)
		admin.PUT("/settings/bonus-tiers", h.UpdateBonusTiers)
		admin.GET("/settings/vip-levels", h.ListVipLevels)
		admin.PUT("/settings/vip-levels", h.ReplaceVipLevels)
		admin.GET("/settings/affiliate", h.GetAffiliateSettings)
		admin.PUT("/settings/affiliate", h.UpdateAffiliateSettings)
		admin.PUT("/accounts/:id/special-bonus", h.SetSpecialBonus)
		admin.POST("/payment-numbers", h.AddPaymentNumber)
		admin.DELETE("/payment-numbers/:id", h.DeletePaymentNumber)
		admin.PUT("/games/:gameId/win-ratio", h.SetGameWinRatio)
	}

	r.POST("/webhooks/sms", h.SmsInbound)
}

// errorStatus maps the service error taxonomy onto HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrRewardNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrTurnoverNotMet),
		errors.Is(err, services.ErrInvalidPin):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	c.JSON(status, common.NewErrorResponse(err.Error(), nil, status))
}
