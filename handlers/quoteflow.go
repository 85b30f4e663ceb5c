package handlers

import (
	"errors"
	"net/http"

	"huduma/models"
	"huduma/services/quoteflow"
	"huduma/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuoteFlowHandler maps HTTP intents onto the quote flow service.
type QuoteFlowHandler struct {
	Service quoteflow.QuoteFlowService
	Logger  *zap.Logger
}

func NewQuoteFlowHandler(svc quoteflow.QuoteFlowService, logger *zap.Logger) *QuoteFlowHandler {
	return &QuoteFlowHandler{Service: svc, Logger: logger}
}

// respondFlowError turns flow errors into structured responses. Business
// failures keep the flow usable, so the current state rides along.
func (h *QuoteFlowHandler) respondFlowError(c *gin.Context, state *models.QuoteFlowState, err error) {
	if errors.Is(err, quoteflow.ErrFlowNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Quote flow not found or expired", "")
		return
	}

	var flowErr *quoteflow.FlowError
	if errors.As(err, &flowErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   flowErr.Code,
			"message": flowErr.Message,
			"flow":    state,
		})
		return
	}

	h.Logger.Error("quote flow operation failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", err.Error())
}

// ownedFlow loads the flow and enforces that it belongs to the caller.
func (h *QuoteFlowHandler) ownedFlow(c *gin.Context) (string, bool) {
	flowID := c.Param("flowID")
	userID := c.GetString("userID")

	state, err := h.Service.Get(c.Request.Context(), flowID)
	if err != nil {
		h.respondFlowError(c, nil, err)
		return "", false
	}
	if state.UserID != userID {
		utils.JSONError(c, http.StatusForbidden, "Quote flow belongs to another user", "")
		return "", false
	}
	return flowID, true
}

// Open creates a new quote flow for a booking.
func (h *QuoteFlowHandler) Open(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.Service.Open(c.Request.Context(), input.BookingID, c.GetString("userID"))
	if err != nil {
		h.respondFlowError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state})
}

// Get returns the current flow state.
func (h *QuoteFlowHandler) Get(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}
	state, err := h.Service.Get(c.Request.Context(), flowID)
	if err != nil {
		h.respondFlowError(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state})
}

// SelectDate records the chosen date and returns the slots for it.
func (h *QuoteFlowHandler) SelectDate(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, slots, err := h.Service.SelectDate(c.Request.Context(), flowID, input.Date)
	if err != nil {
		h.respondFlowError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state, "slots": slots})
}

// SelectSlot records the chosen time slot.
func (h *QuoteFlowHandler) SelectSlot(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}
	var input struct {
		Slot models.Slot `json:"slot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.Service.SelectSlot(c.Request.Context(), flowID, input.Slot)
	if err != nil {
		h.respondFlowError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state})
}

// SelectMethod records the payment method.
func (h *QuoteFlowHandler) SelectMethod(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}
	var input struct {
		Method models.PaymentMethod `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.Service.SelectMethod(c.Request.Context(), flowID, input.Method)
	if err != nil {
		h.respondFlowError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state})
}

// Proceed starts the payment attempt. The gateway path for unsegmented
// bookings returns a pending order for client-side checkout.
func (h *QuoteFlowHandler) Proceed(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}

	state, err := h.Service.Proceed(c.Request.Context(), flowID)
	if err != nil {
		h.respondFlowError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state})
}

// CompleteCheckout reports a successful client-side gateway checkout.
func (h *QuoteFlowHandler) CompleteCheckout(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}
	var input models.CheckoutCompletion
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.Service.CompleteGatewayCheckout(c.Request.Context(), flowID, input)
	if err != nil {
		h.respondFlowError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state})
}

// FailCheckout reports an aborted or failed client-side checkout.
func (h *QuoteFlowHandler) FailCheckout(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.Service.FailGatewayCheckout(c.Request.Context(), flowID, input.Reason)
	if err != nil {
		h.respondFlowError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": state})
}

// Close resets and discards the flow.
func (h *QuoteFlowHandler) Close(c *gin.Context) {
	flowID, ok := h.ownedFlow(c)
	if !ok {
		return
	}
	if err := h.Service.Close(c.Request.Context(), flowID); err != nil {
		h.respondFlowError(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}
