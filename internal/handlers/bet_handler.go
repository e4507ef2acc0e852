package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

type PlaceWagerRequest struct {
	AccountID string          `json:"account_id" binding:"required"`
	Game      string          `json:"game" binding:"required"`
	Stake     decimal.Decimal `json:"stake" binding:"required"`
}

func (h *Handler) PlaceWager(c *gin.Context) {
	var req PlaceWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	wager, err := h.Bets.PlaceWager(services.PlaceWagerDTO{
		AccountID: req.AccountID,
		Game:      req.Game,
		Stake:     req.Stake,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(wager, "Wager placed"))
}

type SettleOutcomeRequest struct {
	AccountID string          `json:"account_id" binding:"required"`
	Result    string          `json:"result" binding:"required"`
	Payout    decimal.Decimal `json:"payout"`
}

func (h *Handler) SettleOutcome(c *gin.Context) {
	var req SettleOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	bet, err := h.Bets.SettleOutcome(services.SettleOutcomeDTO{
		AccountID: req.AccountID,
		WagerID:   c.Param("id"),
		Result:    req.Result,
		Payout:    req.Payout,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(bet, "Wager settled"))
}

type PlayRequest struct {
	AccountID     string          `json:"account_id" binding:"required"`
	Game          string          `json:"game" binding:"required"`
	Stake         decimal.Decimal `json:"stake" binding:"required"`
	WinMultiplier float64         `json:"win_multiplier" binding:"required"`
}

// Play runs a full round in one call: place the wager, decide the
// outcome against the game's win ratio, settle. Game clients that manage
// their own outcome call the two endpoints separately instead.
func (h *Handler) Play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	wager, err := h.Bets.PlaceWager(services.PlaceWagerDTO{
		AccountID: req.AccountID,
		Game:      req.Game,
		Stake:     req.Stake,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result, payout, err := h.Games.DecideOutcome(req.Game, wager.Stake, req.WinMultiplier)
	if err != nil {
		respondUnsettledRound(c, err, wager.ID)
		return
	}

	bet, err := h.Bets.SettleOutcome(services.SettleOutcomeDTO{
		AccountID: req.AccountID,
		WagerID:   wager.ID,
		Result:    result,
		Payout:    payout,
	})
	if err != nil {
		respondUnsettledRound(c, err, wager.ID)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(bet, "Round settled"))
}

// respondUnsettledRound reports a round that failed after the stake was
// already held. The wager id lets the caller settle or void it.
func respondUnsettledRound(c *gin.Context, err error, wagerID string) {
	status := errorStatus(err)
	c.JSON(status, common.NewErrorResponse(err.Error(), gin.H{"wager_id": wagerID}, status))
}

func (h *Handler) ListBets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.Bets.ListBets(c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
