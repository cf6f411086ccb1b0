package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelshare/internal/domain"
	"wheelshare/internal/service"
)

// PaymentHandler handles HTTP requests for ride payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest is the HTTP request body for recording a payment.
type RecordPaymentRequest struct {
	CustomerID string `json:"customer_id"`
	Method     string `json:"method"`
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID             string `json:"id"`
	RideID         string `json:"ride_id"`
	Amount         string `json:"amount"`
	Method         string `json:"method"`
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	CreatedAt      string `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		RideID:         p.RideID,
		Amount:         p.Amount.StringFixed(2),
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		CreatedAt:      p.CreatedAt.Format(timeFormat),
	}
}

// RecordPayment handles POST /api/rides/:id/pay
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), service.RecordPaymentCommand{
		RideID:     c.Param("id"),
		CustomerID: req.CustomerID,
		Method:     domain.PaymentMethod(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"message": "payment recorded",
		"payment": toPaymentResponse(payment),
	})
}

// GetPayment handles GET /api/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}
