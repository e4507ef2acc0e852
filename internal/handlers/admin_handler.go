package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

func (h *Handler) GetBonusTiers(c *gin.Context) {
	cfg, err := h.Settings.GetBonusTiers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(cfg, "Bonus tiers fetched"))
}

func (h *Handler) UpdateBonusTiers(c *gin.Context) {
	var cfg models.BonusTierSettings
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	updated, err := h.Settings.UpdateBonusTiers(cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(updated, "Bonus tiers updated"))
}

func (h *Handler) ListVipLevels(c *gin.Context) {
	levels, err := h.Settings.ListVipLevels()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(levels, "VIP levels fetched"))
}

func (h *Handler) ReplaceVipLevels(c *gin.Context) {
	var levels []models.VipLevel
	if err := c.ShouldBindJSON(&levels); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	if err := h.Settings.ReplaceVipLevels(levels); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(levels, "VIP levels updated"))
}

func (h *Handler) GetAffiliateSettings(c *gin.Context) {
	cfg, err := h.Settings.GetAffiliateSettings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(cfg, "Affiliate settings fetched"))
}

func (h *Handler) UpdateAffiliateSettings(c *gin.Context) {
	var cfg models.AffiliateSettings
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	updated, err := h.Settings.UpdateAffiliateSettings(cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(updated, "Affiliate settings updated"))
}

type SetSpecialBonusRequest struct {
	Percent            *float64 `json:"percent"`
	TurnoverMultiplier *float64 `json:"turnover_multiplier"`
}

// SetSpecialBonus stamps a per-user offer applied to the user's next
// approved deposit. A null percent clears the offer.
func (h *Handler) SetSpecialBonus(c *gin.Context) {
	var req SetSpecialBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	if err := h.Settings.SetSpecialBonus(c.Param("id"), req.Percent, req.TurnoverMultiplier); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Special bonus updated"))
}

type AddPaymentNumberRequest struct {
	Number string `json:"number" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

func (h *Handler) AddPaymentNumber(c *gin.Context) {
	var req AddPaymentNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	pn, err := h.Settings.AddPaymentNumber(req.Number, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(pn, "Payment number added"))
}

func (h *Handler) DeletePaymentNumber(c *gin.Context) {
	if err := h.Settings.DeletePaymentNumber(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Payment number deleted"))
}

type SetGameWinRatioRequest struct {
	WinRatio *int `json:"win_ratio" binding:"required"`
}

func (h *Handler) SetGameWinRatio(c *gin.Context) {
	var req SetGameWinRatioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	gs, err := h.Settings.SetGameWinRatio(c.Param("gameId"), *req.WinRatio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gs, "Win ratio updated"))
}
