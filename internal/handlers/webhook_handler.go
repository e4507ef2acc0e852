package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

type SmsInboundRequest struct {
	Secret string `json:"secret" binding:"required"`
	Sender string `json:"sender"`
	Body   string `json:"body" binding:"required"`
}

// SmsInbound takes payment confirmation texts from the forwarding device
// and queues any matched pending deposit for auto-approval.
func (h *Handler) SmsInbound(c *gin.Context) {
	var req SmsInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	matched, err := h.Sms.HandleInbound(req.Secret, req.Sender, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "No matching deposit"
	if matched {
		message = "Deposit queued for approval"
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"matched": matched}, message))
}
